package shape

// Option configures a Check call.
type Option interface{ apply(*options) }

type options struct {
	maxIssues   int
	allowExtra  bool
	ignoredKeys map[string]struct{}
}

type optionFunc func(*options)

func (f optionFunc) apply(o *options) {
	if o == nil {
		return
	}
	f(o)
}

// FailFast reports only the first issue.
func FailFast() Option {
	return MaxIssues(1)
}

// MaxIssues reports at most the first n issues. Zero means no limit, which
// is the default.
func MaxIssues(n int) Option {
	return optionFunc(func(o *options) {
		if n < 0 {
			n = 0
		}
		o.maxIssues = n
	})
}

// AllowUnknownKeys makes objects ignore keys their schema does not declare.
func AllowUnknownKeys() Option {
	return optionFunc(func(o *options) {
		o.allowExtra = true
	})
}

// IgnoreKeys makes objects ignore the given undeclared keys.
func IgnoreKeys(keys ...string) Option {
	return optionFunc(func(o *options) {
		if o.ignoredKeys == nil {
			o.ignoredKeys = make(map[string]struct{}, len(keys))
		}
		for _, k := range keys {
			o.ignoredKeys[k] = struct{}{}
		}
	})
}

func (o *options) ignores(key string) bool {
	if o.allowExtra {
		return true
	}
	_, ok := o.ignoredKeys[key]
	return ok
}
