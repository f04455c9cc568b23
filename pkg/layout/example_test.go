package layout_test

import (
	"fmt"

	"github.com/matzehuels/slidesmith/pkg/layout"
)

func ExampleWrap() {
	for _, line := range layout.Wrap("Deterministic layout without a rendering pass", 16) {
		fmt.Println(line)
	}
	// Output:
	// Deterministic
	// layout without a
	// rendering pass
}

func ExampleWrap_longWord() {
	fmt.Println(layout.Wrap("supercalifragilistic", 8))
	// Output:
	// [superca- lifragi- listic]
}

func ExampleMaxChars() {
	// a 1000pt wide region at 28pt body text
	fmt.Println(layout.MaxChars(1000, 28))
	// Output:
	// 64
}
