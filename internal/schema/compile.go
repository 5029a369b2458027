package schema

import (
	"fmt"

	"RecipePress/internal/domain"
)

// Output bundles the three compiled artifacts for one recipe.
type Output struct {
	JSONLD    []byte
	Microdata string
	Block     string
}

// Markup is the fragment appended to the content record body: the embedded
// block payload followed by the JSON-LD script tag and the microdata region.
func (o Output) Markup() string {
	return o.Block + "\n" + ScriptTag(o.JSONLD) + "\n" + o.Microdata
}

// Compile produces all structured-data artifacts for a recipe. It is
// deterministic: identical inputs yield byte-identical output.
func Compile(rec *domain.Recipe, rating domain.Rating) (Output, error) {
	jsonLD, err := JSONLD(rec, rating)
	if err != nil {
		return Output{}, fmt.Errorf("compile json-ld: %w", err)
	}
	block, err := MarshalBlock(rec)
	if err != nil {
		return Output{}, err
	}
	return Output{
		JSONLD:    jsonLD,
		Microdata: Microdata(rec, rating),
		Block:     block,
	}, nil
}
