package framework

import "github.com/goliatone/go-debugbar/pkg/host"

// Name is the registry key of the framework collector.
const Name = "framework"

// Defaults used when options leave a value blank.
const (
	DefaultLocale     = "en_US"
	DefaultPermission = "ADMIN"
	NotLoggedIn       = "Not logged in"
)

type Options struct {
	// Debug is reported verbatim under the "debug" key.
	Debug bool
	// DefaultLocale is used when the scope has no locale provider.
	DefaultLocale string
	// Permission gates session, cookie and config data when the scope carries
	// an Authorizer.
	Permission string
	// Versions lists installed application modules for the version indicator.
	Versions host.VersionProvider
	// AssetBaseURL is the public URL prefix of the collector's script.
	AssetBaseURL string
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		DefaultLocale: DefaultLocale,
		Permission:    DefaultPermission,
		AssetBaseURL:  "collectors/" + Name,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.DefaultLocale == "" {
		opts.DefaultLocale = DefaultLocale
	}
	if opts.Permission == "" {
		opts.Permission = DefaultPermission
	}
	if opts.AssetBaseURL == "" {
		opts.AssetBaseURL = "collectors/" + Name
	}
	return opts
}

func WithDebug(debug bool) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Debug = debug
	}
}

func WithDefaultLocale(locale string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.DefaultLocale = locale
	}
}

func WithPermission(code string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Permission = code
	}
}

func WithVersions(versions host.VersionProvider) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Versions = versions
	}
}

func WithAssetBaseURL(url string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.AssetBaseURL = url
	}
}
