package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileEnv names the environment variable pointing at an optional YAML file.
const FileEnv = "CONFIG_FILE"

var durationType = reflect.TypeOf(time.Duration(0))

// LoadConfig fills target (a pointer to struct) from the YAML file named by
// CONFIG_FILE, if any, and then from environment variables. Fields are matched
// by their `env:"KEY"` tag or, without a tag, by PARENT_CHILD upper-cased names.
// A tag of "-" skips the field.
func LoadConfig(target any) error {
	return LoadConfigFile(os.Getenv(FileEnv), target)
}

// LoadConfigFile is LoadConfig with an explicit YAML path. An empty path
// means environment variables only.
func LoadConfigFile(path string, target any) error {
	if target == nil {
		return errors.New("config: target is nil")
	}

	val := reflect.ValueOf(target)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return errors.New("config: target must be pointer to struct")
	}

	if strings.TrimSpace(path) != "" {
		if err := decodeFile(path, target); err != nil {
			return err
		}
	}

	return applyEnv(val.Elem(), "")
}

func decodeFile(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read file: %w", err)
	}
	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("config: decode yaml %s: %w", path, err)
	}
	return nil
}

func applyEnv(v reflect.Value, prefix string) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		meta := t.Field(i)
		if !field.CanSet() {
			continue
		}

		if meta.Anonymous && field.Kind() == reflect.Struct {
			if err := applyEnv(field, prefix); err != nil {
				return err
			}
			continue
		}

		tag := meta.Tag.Get("env")
		if tag == "-" {
			continue
		}

		key := envKey(prefix, meta.Name)
		if tag != "" {
			key = envKey("", tag)
		}

		if field.Kind() == reflect.Struct {
			if err := applyEnv(field, key); err != nil {
				return err
			}
			continue
		}

		raw, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		if err := setValue(field, strings.TrimSpace(raw)); err != nil {
			return fmt.Errorf("config: parse %s: %w", key, err)
		}
	}
	return nil
}

func envKey(prefix, name string) string {
	name = strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
	if prefix == "" {
		return name
	}
	return prefix + "_" + name
}

func setValue(field reflect.Value, raw string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type %s", field.Type())
		}
		var items []string
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		field.Set(reflect.ValueOf(items))
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}
