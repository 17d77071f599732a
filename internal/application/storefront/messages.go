package storefront

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const addedToCartKey = "Added %d × %s to your cart"

func init() {
	must(message.Set(language.English, addedToCartKey,
		plural.Selectf(1, "%d",
			"=1", "Added %[2]s to your cart",
			plural.Other, "Added %[1]d × %[2]s to your cart")))
	must(message.Set(language.German, addedToCartKey,
		plural.Selectf(1, "%d",
			"=1", "%[2]s wurde in den Warenkorb gelegt",
			plural.Other, "%[1]d × %[2]s wurden in den Warenkorb gelegt")))
	must(message.Set(language.Spanish, addedToCartKey,
		plural.Selectf(1, "%d",
			"=1", "%[2]s añadido a tu carrito",
			plural.Other, "%[1]d × %[2]s añadidos a tu carrito")))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func confirmationMessage(tag language.Tag, quantity int, name string) string {
	return message.NewPrinter(tag).Sprintf(addedToCartKey, quantity, name)
}
