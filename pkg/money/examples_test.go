package money_test

import (
	"fmt"

	"github.com/amirasaad/ledger/pkg/money"
)

func ExampleParse() {
	cents, err := money.Parse("12.3")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(cents)
	// Output: 1230
}

func ExampleFormat() {
	fmt.Println(money.Format(5000))
	fmt.Println(money.Format(-7))
	// Output:
	// 50.00
	// -0.07
}
