package config

import (
	"flag"
	"fmt"
	"reflect"
	"strconv"
)

func setupFlags(fs *flag.FlagSet, value reflect.Value) error {
	return reflectConfiguration(
		value,
		func(flagName, defaultValue, flagUsage string) bool {
			return flagName != ""
		},
		func(fieldValue reflect.Value, flagName, flagValue, flagUsage string) error {
			switch fieldValue.Kind() {
			case reflect.Bool:
				boolValue, err := strconv.ParseBool(flagValue)
				if err != nil {
					return fmt.Errorf("default for %s: %w", flagName, err)
				}
				fs.Bool(flagName, boolValue, flagUsage)
			case reflect.Int64:
				intValue, err := strconv.ParseInt(flagValue, 10, 64)
				if err != nil {
					return fmt.Errorf("default for %s: %w", flagName, err)
				}
				fs.Int64(flagName, intValue, flagUsage)
			case reflect.String:
				fs.String(flagName, flagValue, flagUsage)
			}
			return nil
		},
	)
}

func flagNames(value reflect.Value) map[string]bool {
	names := make(map[string]bool)
	_ = reflectConfiguration(
		value,
		func(flagName, defaultValue, flagUsage string) bool {
			return flagName != ""
		},
		func(fieldValue reflect.Value, flagName, flagValue, flagUsage string) error {
			names[flagName] = true
			return nil
		},
	)
	return names
}

func setDefaults(value reflect.Value) {
	_ = reflectConfiguration(
		value,
		func(flagName, defaultValue, flagUsage string) bool {
			return defaultValue != ""
		},
		func(fieldValue reflect.Value, flagName, defaultValue, flagUsage string) error {
			return setField(fieldValue, defaultValue)
		},
	)
}

func setFromFlags(fs *flag.FlagSet, value reflect.Value) error {
	setFlags := make(map[string]flag.Value)
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = f.Value
	})

	return reflectConfiguration(
		value,
		func(flagName, flagValue, flagUsage string) bool {
			_, ok := setFlags[flagName]
			return ok
		},
		func(fieldValue reflect.Value, flagName, flagValue, flagUsage string) error {
			if err := setField(fieldValue, setFlags[flagName].String()); err != nil {
				return fmt.Errorf("flag -%s: %w", flagName, err)
			}
			return nil
		},
	)
}

func setField(fieldValue reflect.Value, text string) error {
	switch fieldValue.Kind() {
	case reflect.Bool:
		boolValue, err := strconv.ParseBool(text)
		if err != nil {
			return err
		}
		fieldValue.SetBool(boolValue)
	case reflect.Int64:
		intValue, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return err
		}
		fieldValue.SetInt(intValue)
	case reflect.String:
		fieldValue.SetString(text)
	}
	return nil
}

func reflectConfiguration(
	value reflect.Value,
	shouldHandle func(flagName, flagValue, flagUsage string) bool,
	handle func(fieldValue reflect.Value, flagName, flagValue, flagUsage string) error,
) error {
	if value.Kind() != reflect.Struct {
		return nil
	}
	t := value.Type()
	n := t.NumField()
	for i := 0; i < n; i++ {
		field := t.Field(i)

		flagName := field.Tag.Get("flag")
		flagValue := field.Tag.Get("default")
		flagUsage := field.Tag.Get("usage")

		fieldValue := value.Field(i)

		if flagName != "" && shouldHandle(flagName, flagValue, flagUsage) {
			if err := handle(fieldValue, flagName, flagValue, flagUsage); err != nil {
				return err
			}
		} else if fieldValue.Kind() == reflect.Struct {
			if err := reflectConfiguration(fieldValue, shouldHandle, handle); err != nil {
				return err
			}
		}
	}
	return nil
}
