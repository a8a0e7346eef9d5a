package mapstructure

import (
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

const unknownTypeErrorFormat = "cannot decode value of type %s into type %s"

func Decode(input any, output any, hooks ...mapstructure.DecodeHookFunc) error {
	hooks = append(hooks,
		ToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	)

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata:         nil,
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(hooks...),
		Result:           output,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(input)
}

// Strict works like Decode, but fails on keys that output has no field for
func Strict(input any, output any, hooks ...mapstructure.DecodeHookFunc) error {
	hooks = append(hooks,
		ToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	)

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(hooks...),
		Result:           output,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(input)
}

func ToTimeDurationHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}

		switch f.Kind() {
		case reflect.String:
			return time.ParseDuration(data.(string))
		case reflect.Int64:
			return time.Duration(data.(int64)), nil
		case reflect.Int:
			return time.Duration(data.(int)), nil
		case reflect.Float64:
			return time.Duration(data.(float64)), nil
		default:
			return nil, fmt.Errorf(unknownTypeErrorFormat, f, t)
		}
	}
}
