package mcp

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/mark3labs/mcp-go/mcp"
)

// bindArguments decodes the request arguments into target using json tags.
// Clients frequently send every value as a string, so "12" binds to an int
// and "true" to a bool.
func bindArguments[T any](request mcp.CallToolRequest, target *T) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		Result:           target,
		TagName:          "json",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(request.GetArguments())
}
