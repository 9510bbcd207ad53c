package main

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// msgChecked is the catalog key of the check summary head.
const msgChecked = "checked %d files"

func init() {
	err := message.Set(language.English, msgChecked,
		plural.Selectf(1, "%d",
			"=1", "checked %[1]d file",
			plural.Other, "checked %[1]d files"))
	if err != nil {
		panic(err)
	}
}

func newPrinter() *message.Printer {
	return message.NewPrinter(language.English)
}
