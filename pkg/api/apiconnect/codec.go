// Package apiconnect wires the gopayurself services to Connect handlers and
// clients. Messages are the plain structs of package api, encoded as JSON.
package apiconnect

import (
	"connectrpc.com/connect"

	"github.com/mmynk/gopayurself/pkg/api"
)

func withCodec(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
}

func withClientCodec(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
}
