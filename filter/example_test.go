package filter_test

import (
	"fmt"

	"github.com/ardnew/chanplate/filter"
)

func ExampleApply() {
	seq := []string{"Room1", "Room2", "Room3", "Room4", "Room5", "Room6"}

	fmt.Println(filter.Apply(seq, "i % 2 == 0"))
	fmt.Println(filter.Apply(seq, "2 <= i < 4"))
	// Output:
	// [Room2 Room4 Room6]
	// [Room2 Room3]
}

func ExampleExtract() {
	base, predicate, ok := filter.Extract("[1...6, if i % 3 == 0]")

	fmt.Printf("%q %q %v\n", base, predicate, ok)
	// Output: "[1...6]" "i % 3 == 0" true
}

func ExampleCompile() {
	p, err := filter.Compile("6 / (i - 2) > 1")
	if err != nil {
		panic(err)
	}

	for i := 1; i <= 4; i++ {
		ok, err := p.Eval(i)
		fmt.Println(i, ok, err != nil)
	}
	// Output:
	// 1 false false
	// 2 false true
	// 3 true false
	// 4 true false
}
