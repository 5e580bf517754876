package node

import (
	"github.com/viant/structology/conv"
)

var converter = newConverter()

func newConverter() *conv.Converter {
	options := conv.DefaultOptions()
	options.IgnoreUnmapped = true
	return conv.NewConverter(options)
}

// Decode converts resolved values into the supplied struct pointer,
// unknown keys are ignored.
func Decode(values Values, dest interface{}) error {
	return converter.Convert(map[string]interface{}(values), dest)
}
