package graph_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/tangle/pkg/graph"
)

func ExampleReadDocument() {
	input := `
entities:
  - name: A
    properties: {id: a}
  - name: B
    properties: {id: b}
relationships:
  - {source: a, target: b, id: ab}
`
	doc, err := graph.ReadDocument(strings.NewReader(input), graph.FormatYAML)
	if err != nil {
		fmt.Println(err)
		return
	}
	data, _ := graph.MarshalDocument(doc)
	fmt.Println(string(data))
	// Output:
	// {"entities":[{"name":"A","properties":{"id":"a"}},{"name":"B","properties":{"id":"b"}}],"relationships":[{"id":"ab","source":"a","target":"b"}]}
}
