//go:build generate

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	iyaml "github.com/invopop/yaml"
	"github.com/mcuadros/go-defaults"

	"github.com/theopenlane/utils/envparse"

	"github.com/theopenlane/sentinel/config"
	"github.com/theopenlane/sentinel/internal/resolver"
)

const (
	// tagName is the struct tag used for field naming in the schema
	tagName = "koanf"
	// skipper is the tag value that indicates a field should be skipped
	skipper = "-"
	// defaultTag is the struct tag used for default values
	defaultTag = "default"
	// sensitiveTag is the struct tag used to mark sensitive fields
	sensitiveTag = "sensitive"
	// varPrefix is the environment variable prefix
	varPrefix = "SENTINEL"
	// modulePrefix is the import path prefix used to resolve Go comments
	modulePrefix = "github.com/theopenlane/sentinel/"
	// jsonSchemaPath is the output path for the JSON schema file
	jsonSchemaPath = "./jsonschema/sentinel.config.json"
	// yamlConfigPath is the output path for the example YAML config
	yamlConfigPath = "./config/config.example.yaml"
	// envConfigPath is the output path for the example env file
	envConfigPath = "./config/.env.example"
	// ownerReadWrite is the file permission for generated files
	ownerReadWrite = 0600
)

// output renders one generated artifact
type output struct {
	path   string
	render func(*config.Config) ([]byte, error)
}

func main() {
	cfg := &config.Config{}
	defaults.SetDefaults(cfg)

	if len(cfg.Resolver.Servers) == 0 {
		cfg.Resolver.Servers = slices.Clone(resolver.DefaultServers)
	}

	outputs := []output{
		{path: jsonSchemaPath, render: renderSchema},
		{path: yamlConfigPath, render: renderYAML},
		{path: envConfigPath, render: renderEnv},
	}

	for _, o := range outputs {
		data, err := o.render(cfg)
		if err != nil {
			panic(fmt.Errorf("rendering %s: %w", o.path, err))
		}

		if err := os.WriteFile(o.path, data, ownerReadWrite); err != nil {
			panic(fmt.Errorf("writing %s: %w", o.path, err))
		}

		fmt.Printf("wrote %s\n", o.path)
	}
}

// renderSchema reflects the config into a JSON schema described by the config package comments
func renderSchema(cfg *config.Config) ([]byte, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: true,
		FieldNameTag:               tagName,
	}

	if err := r.AddGoComments(modulePrefix, "./config"); err != nil {
		return nil, fmt.Errorf("adding go comments: %w", err)
	}

	return json.MarshalIndent(r.Reflect(cfg), "", "  ")
}

// renderYAML writes the defaults as an example config file
func renderYAML(cfg *config.Config) ([]byte, error) {
	return iyaml.Marshal(toYAMLValue(reflect.ValueOf(cfg)))
}

// toYAMLValue converts v into maps and slices keyed by koanf tags, with durations as strings
func toYAMLValue(v reflect.Value) any {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}

		v = v.Elem()
	}

	if v.Type() == reflect.TypeFor[time.Duration]() {
		return time.Duration(v.Int()).String()
	}

	switch v.Kind() {
	case reflect.Struct:
		out := make(map[string]any)

		for i := range v.NumField() {
			field := v.Type().Field(i)

			key := field.Tag.Get(tagName)
			if !field.IsExported() || key == "" || key == skipper {
				continue
			}

			out[key] = toYAMLValue(v.Field(i))
		}

		return out
	case reflect.Slice, reflect.Array:
		items := make([]any, 0, v.Len())
		for i := range v.Len() {
			items = append(items, toYAMLValue(v.Index(i)))
		}

		return items
	default:
		return v.Interface()
	}
}

// renderEnv lists every SENTINEL_ variable with its default, blanking sensitive values
func renderEnv(cfg *config.Config) ([]byte, error) {
	cp := envparse.Config{
		FieldTagName: tagName,
		Skipper:      skipper,
	}

	vars, err := cp.GatherEnvInfo(varPrefix, cfg)
	if err != nil {
		return nil, fmt.Errorf("gathering environment info: %w", err)
	}

	var b strings.Builder

	for _, v := range vars {
		if v.Tags.Get(sensitiveTag) == "true" {
			fmt.Fprintf(&b, "# %s is sensitive and should be set securely\n%s=\"\"\n", v.Key, v.Key)
			continue
		}

		fmt.Fprintf(&b, "%s=\"%s\"\n", v.Key, v.Tags.Get(defaultTag))
	}

	return []byte(b.String()), nil
}
