package riff

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/cursorcreate/formats"
)

func TestWriteRead(t *testing.T) {
	t.Parallel()

	var buf Buffer
	w, err := NewWriter(&buf, "ACON")
	require.NoError(t, err)
	require.NoError(t, w.WriteChunk("anih", []byte{1, 2, 3, 4}))
	require.NoError(t, w.WriteList("fram",
		Chunk{ID: "icon", Data: []byte("first")},
		Chunk{ID: "icon", Data: []byte("second")},
	))
	require.NoError(t, w.WriteChunk("rate", []byte{6, 0, 0, 0}))
	require.NoError(t, w.Close())
	assert.Error(t, w.Close())

	data := buf.Bytes()
	assert.Equal(t, uint32(len(data)-8), formats.Uint32(data, 4))
	// "first" is padded to an even length.
	assert.Equal(t, uint32(4+13+1+14), formats.Uint32(data, 12+8+4+4))

	r := bytes.NewReader(data)
	form, err := ReadHeader(r)
	require.NoError(t, err)
	assert.Equal(t, "ACON", form)

	rr := NewReader(r, []string{LIST}, []string{"fram"})
	var got []Chunk
	for {
		c, err := rr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, *c)
	}

	assert.Equal(t, []Chunk{
		{ID: "anih", Data: []byte{1, 2, 3, 4}},
		{ID: "icon", Data: []byte("first")},
		{ID: "icon", Data: []byte("second")},
		{ID: "rate", Data: []byte{6, 0, 0, 0}},
	}, got)
}

func TestListBounds(t *testing.T) {
	t.Parallel()

	// The list length ends the nested reader, the following chunk belongs to
	// the outer stream again. Lists of other types are skipped whole and odd
	// sized chunks are followed by a pad byte.
	data := []byte("LIST\x10\x00\x00\x00fram" + "icon\x03\x00\x00\x00xyz\x00" +
		"LIST\x0e\x00\x00\x00INFO" + "INAM\x01\x00\x00\x00B\x00" +
		"LIST\x0d\x00\x00\x00fram" + "abcd\x01\x00\x00\x00Q" + "\x00" +
		"next\x00\x00\x00\x00" +
		"efgh\x01\x00\x00\x00Z")
	rr := NewReader(bytes.NewReader(data), []string{LIST}, []string{"fram"})

	var got []Chunk
	for {
		c, err := rr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, *c)
	}
	assert.Equal(t, []Chunk{
		{ID: "icon", Data: []byte("xyz")},
		{ID: "abcd", Data: []byte("Q")},
		{ID: "next", Data: []byte{}},
		{ID: "efgh", Data: []byte("Z")},
	}, got)
}

func TestMalformed(t *testing.T) {
	t.Parallel()

	_, err := ReadHeader(bytes.NewReader([]byte("RIF")))
	assert.True(t, formats.IsFormatError(err))

	_, err = ReadHeader(bytes.NewReader([]byte("RIFX\x00\x00\x00\x00ACON")))
	assert.True(t, formats.IsFormatError(err))

	rr := NewReader(bytes.NewReader([]byte("anih\x24\x00\x00\x00short")), nil, nil)
	_, err = rr.Next()
	assert.True(t, formats.IsFormatError(err))

	rr = NewReader(bytes.NewReader([]byte("an")), nil, nil)
	_, err = rr.Next()
	assert.True(t, formats.IsFormatError(err))

	rr = NewReader(bytes.NewReader([]byte("LIST\x02\x00\x00\x00ab")), []string{LIST}, nil)
	_, err = rr.Next()
	assert.True(t, formats.IsFormatError(err))

	rr = NewReader(bytes.NewReader([]byte("LIST\x20\x00\x00\x00INFOINAM")), []string{LIST}, nil)
	_, err = rr.Next()
	assert.True(t, formats.IsFormatError(err))

	rr = NewReader(bytes.NewReader(nil), nil, nil)
	_, err = rr.Next()
	assert.Equal(t, io.EOF, err)
}

func TestBuffer(t *testing.T) {
	t.Parallel()

	var b Buffer
	_, err := b.Write([]byte("hello world"))
	require.NoError(t, err)

	pos, err := b.Seek(6, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(6), pos)
	_, err = b.Write([]byte("there"))
	require.NoError(t, err)
	assert.Equal(t, "hello there", string(b.Bytes()))

	_, err = b.Seek(2, io.SeekEnd)
	require.NoError(t, err)
	_, err = b.Write([]byte("!"))
	require.NoError(t, err)
	assert.Equal(t, "hello there\x00\x00!", string(b.Bytes()))
	assert.Equal(t, 14, b.Len())

	_, err = b.Seek(-1, io.SeekStart)
	assert.Error(t, err)
}
