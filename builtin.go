package mesh

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
)

// Built-in sample tools and resources. These are ordinary StaticTool
// values; providers opt into them like any other tool.

// CalculatorArgs are the arguments of the calculator tool.
type CalculatorArgs struct {
	Operation string  `json:"operation" jsonschema:"enum=add,enum=subtract,enum=multiply,enum=divide"`
	A         float64 `json:"a"`
	B         float64 `json:"b"`
}

// CalculatorTool performs basic arithmetic. Division by zero is a
// protocol failure, not a NaN or a panic.
func CalculatorTool() StaticTool {
	return NewTool("calculator", func(ctx context.Context, args CalculatorArgs) Response {
		var result float64
		switch args.Operation {
		case "add":
			result = args.A + args.B
		case "subtract":
			result = args.A - args.B
		case "multiply":
			result = args.A * args.B
		case "divide":
			if args.B == 0 {
				return Errorf("Division by zero")
			}
			result = args.A / args.B
		default:
			return Errorf("Unknown operation: %s", args.Operation)
		}
		return TextResult("Result: " + formatNumber(args.A) + " " + args.Operation + " " +
			formatNumber(args.B) + " = " + formatNumber(result))
	}, WithToolDescription("Perform basic arithmetic operations"))
}

// TextProcessorArgs are the arguments of the text_processor tool.
type TextProcessorArgs struct {
	Text      string `json:"text"`
	Operation string `json:"operation" jsonschema:"enum=uppercase,enum=lowercase,enum=reverse"`
}

// TextProcessorTool transforms text. Reverse operates on code points,
// not bytes, so multi-byte runes survive a round trip.
func TextProcessorTool() StaticTool {
	return NewTool("text_processor", func(ctx context.Context, args TextProcessorArgs) Response {
		var result string
		switch args.Operation {
		case "uppercase":
			result = strings.ToUpper(args.Text)
		case "lowercase":
			result = strings.ToLower(args.Text)
		case "reverse":
			result = reverseString(args.Text)
		default:
			return Errorf("Unknown operation: %s", args.Operation)
		}
		return TextResult("Processed text: " + result)
	}, WithToolDescription("Process text - uppercase, lowercase, or reverse"))
}

// UsersResource is a sample user database resource.
func UsersResource() StaticResource {
	data := struct {
		Users []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
			Role string `json:"role"`
		} `json:"users"`
	}{
		Users: []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
			Role string `json:"role"`
		}{
			{ID: 1, Name: "Alice", Role: "admin"},
			{ID: 2, Name: "Bob", Role: "user"},
			{ID: 3, Name: "Charlie", Role: "user"},
		},
	}
	text, _ := json.MarshalIndent(data, "", "  ")

	return StaticResource{
		Descriptor: Resource{
			URI:         "data/users.json",
			Name:        "User Database",
			Description: "Sample user data",
			MimeType:    "application/json",
		},
		Contents: []Content{{Type: "text", Text: string(text)}},
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func reverseString(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
