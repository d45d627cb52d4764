package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func TestCodec_Registered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	require.NotNil(t, c)
	assert.Equal(t, CodecName, c.Name())
}

func TestCodec_PlainStruct(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	in := &ItemResponse{Item: &Item{ID: "1", Title: "t", Blob: "AQ==", CreatedAt: timestamppb.New(created)}}

	b, err := Codec{}.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"title":"t"`)

	var out ItemResponse
	require.NoError(t, Codec{}.Unmarshal(b, &out))
	require.NotNil(t, out.Item)
	assert.Equal(t, "1", out.Item.ID)
	assert.True(t, created.Equal(out.Item.CreatedAt.AsTime()))
}

func TestCodec_ProtoMessage(t *testing.T) {
	b, err := Codec{}.Marshal(&emptypb.Empty{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(b))

	ts := timestamppb.New(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	b, err = Codec{}.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2025-01-02T03:04:05Z"`, string(b))

	var got timestamppb.Timestamp
	require.NoError(t, Codec{}.Unmarshal(b, &got))
	assert.Equal(t, ts.AsTime(), got.AsTime())
}

func TestCodec_UnmarshalError(t *testing.T) {
	var out RegisterRequest
	assert.Error(t, Codec{}.Unmarshal([]byte("{"), &out))
	assert.Error(t, Codec{}.Unmarshal([]byte("["), &emptypb.Empty{}))
}
