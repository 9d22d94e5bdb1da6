package lang_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/ardnew/lrepl/lang"
)

func ExampleParse() {
	t, err := lang.Parse(context.Background(), `λx y.x y z`)
	if err != nil {
		panic(err)
	}

	fmt.Println(t)
	// Output: (λx.(λy.((x y) z)))
}

func ExampleSyntaxError_Snippet() {
	_, err := lang.Parse(context.Background(), `(λx.x) y.`)

	var se *lang.SyntaxError
	if errors.As(err, &se) {
		fmt.Println(se)
		fmt.Print(se.Snippet())
	}
	// Output:
	// syntax error at column 9: unexpected ".", expected "variable", "(", "λ", end of input
	// (λx.x) y.
	//         ^
}
