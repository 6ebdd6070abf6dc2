// Package i18n resolves message keys to display strings for the locale of the
// current request.
package i18n

import (
	"context"
	"strings"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"golang.org/x/text/language"
)

type ctxKey struct{}

// WithLocale returns a copy of ctx carrying the requested locales, most
// preferred first.
func WithLocale(ctx context.Context, locales ...string) context.Context {
	return context.WithValue(ctx, ctxKey{}, locales)
}

func localesFromContext(ctx context.Context) []string {
	l, _ := ctx.Value(ctxKey{}).([]string)
	return l
}

// Localizer maps message keys to translated strings. Parameters fill the {0},
// {1}, ... placeholders of the message.
type Localizer struct {
	uni      *ut.UniversalTranslator
	fallback ut.Translator
}

// New builds a Localizer with every bundled catalog loaded. defaultLocale is
// used when the request doesn't ask for a supported locale.
func New(defaultLocale string) (*Localizer, error) {
	supported := map[string]locales.Translator{
		"en": en.New(),
	}

	fb, ok := supported[defaultLocale]
	if !ok {
		return nil, errors.Errorf("unsupported default locale %q", defaultLocale)
	}

	all := make([]locales.Translator, 0, len(supported))
	for _, l := range supported {
		all = append(all, l)
	}
	uni := ut.New(fb, all...)

	for locale, messages := range catalogs {
		trans, found := uni.GetTranslator(locale)
		if !found {
			return nil, errors.Errorf("no translator for locale %q", locale)
		}
		for key, text := range messages {
			if err := trans.Add(key, text, false); err != nil {
				return nil, errors.Wrapf(err, "failed to add %s message %s", locale, key)
			}
		}
	}

	if err := uni.VerifyTranslations(); err != nil {
		return nil, errors.WithStack(err)
	}

	fallback, _ := uni.GetTranslator(defaultLocale)
	return &Localizer{uni: uni, fallback: fallback}, nil
}

// T returns the message for key in the locale carried by ctx. Unknown keys are
// returned as-is so that a missing translation never fails a request.
func (l *Localizer) T(ctx context.Context, key string, params ...string) string {
	trans := l.fallback
	if requested := localesFromContext(ctx); len(requested) > 0 {
		if t, found := l.uni.FindTranslator(requested...); found {
			trans = t
		}
	}

	msg, err := trans.T(key, params...)
	if err != nil {
		logger.FromContext(ctx).Warn("missing translation", logger.Data{"key": key, "locale": trans.Locale()})
		return key
	}
	return msg
}

// Middleware stores the locales from the Accept-Language header on the request
// context.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requested := parseAcceptLanguage(c.Request().Header.Get("Accept-Language"))
			if len(requested) > 0 {
				req := c.Request()
				c.SetRequest(req.WithContext(WithLocale(req.Context(), requested...)))
			}
			return next(c)
		}
	}
}

// anyLanguage is what the "*" wildcard parses to.
var anyLanguage = language.Make("mul")

// parseAcceptLanguage returns the language tags of the header ordered by
// quality, each followed by its base language, in the underscore form used by
// the locales package. Malformed headers yield no tags.
func parseAcceptLanguage(header string) []string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return nil
	}

	var out []string
	for _, tag := range tags {
		if tag == language.Und || tag == anyLanguage {
			continue
		}
		out = append(out, strings.ReplaceAll(tag.String(), "-", "_"))
		if base, conf := tag.Base(); conf != language.No && base.String() != tag.String() {
			out = append(out, base.String())
		}
	}
	return out
}
