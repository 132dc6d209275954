package pkgconfig

import (
	"errors"
	"path"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Viper is a Config implementation backed by github.com/spf13/viper.
type Viper struct {
	v *viper.Viper
}

// Option customizes NewViper.
type Option func(*options)

type options struct {
	defaults     map[string]any
	optionalFile bool
	flags        *pflag.FlagSet
}

// WithDefaults registers fallback values used when no other source sets a key.
func WithDefaults(defaults map[string]any) Option {
	return func(o *options) {
		o.defaults = defaults
	}
}

// WithOptionalFile lets NewViper succeed when the config file does not exist.
func WithOptionalFile() Option {
	return func(o *options) {
		o.optionalFile = true
	}
}

// WithFlags binds every flag of fs to the config key of the same name.
// Only flags that were explicitly set override the other sources.
func WithFlags(fs *pflag.FlagSet) Option {
	return func(o *options) {
		o.flags = fs
	}
}

// NewViper loads configuration from the given file path and returns a Viper-backed Config.
//
// The config file type is inferred by Viper from the filename extension.
func NewViper(pathFile string, opts ...Option) (*Viper, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	v := viper.New()
	for key, value := range o.defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if o.flags != nil {
		if err := v.BindPFlags(o.flags); err != nil {
			return nil, err
		}
	}

	filename := path.Base(pathFile)
	filePath := path.Dir(pathFile)

	configName := path.Base(filename[:len(filename)-len(path.Ext(filename))])

	v.AddConfigPath(filePath)
	v.SetConfigName(configName)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !o.optionalFile || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return &Viper{v: v}, nil
}

// GetInt returns the value for key as int64.
func (vc *Viper) GetInt(key string) int64 {
	return vc.v.GetInt64(key)
}

// GetBool returns the value for key as bool.
func (vc *Viper) GetBool(key string) bool {
	return vc.v.GetBool(key)
}

// GetFloat returns the value for key as float64.
func (vc *Viper) GetFloat(key string) float64 {
	return vc.v.GetFloat64(key)
}

// GetString returns the value for key as string.
func (vc *Viper) GetString(key string) string {
	return vc.v.GetString(key)
}

// GetDuration returns the value for key parsed as a time.Duration ("10s", "1m").
func (vc *Viper) GetDuration(key string) time.Duration {
	return vc.v.GetDuration(key)
}

// GetArray returns the value for key split by commas. Empty items are dropped.
func (vc *Viper) GetArray(key string) []string {
	raw := vc.v.GetString(key)
	if raw == "" {
		return nil
	}

	items := strings.Split(raw, ",")
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}

	return out
}

// Close implements io.Closer for interface compatibility.
func (vc *Viper) Close() error {
	return nil
}
