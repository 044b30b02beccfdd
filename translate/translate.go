// Package translate selects a message printer for the user's locale.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

var printer *message.Printer

func init() {
	Set()
}

// userLocales returns the locale preferences of the user, most preferred first.
func userLocales() (locales []string) {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("mipsim: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	return
}

// Set selects the printer for a list of locales, most preferred first.
// With no locales, the user's locale preferences are used.
func Set(locales ...string) {
	if len(locales) == 0 {
		locales = userLocales()
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}

// Error is an en-US error text, translated each time it is formatted.
type Error string

func (err Error) Error() string {
	return From(string(err))
}
