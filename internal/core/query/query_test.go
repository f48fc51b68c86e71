package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/jsonstudio/internal/core/value"
)

const store = `{
	"store": {
		"book": [
			{"category": "reference", "author": "Nigel Rees", "title": "Sayings of the Century", "price": 8.95},
			{"category": "fiction", "author": "Evelyn Waugh", "title": "Sword of Honour", "price": 12.99},
			{"category": "fiction", "author": "Herman Melville", "title": "Moby Dick", "isbn": "0-553-21311-3", "price": 8.99},
			{"category": "fiction", "author": "J. R. R. Tolkien", "title": "The Lord of the Rings", "isbn": "0-395-19395-8", "price": 22.99}
		],
		"bicycle": {"color": "red", "price": 19.95}
	},
	"expensive": 10
}`

func query(t *testing.T, doc, path string) string {
	t.Helper()
	res := ExecuteQuery(value.MustParse(doc), path)
	require.Empty(t, res.Error, path)
	return string(value.Marshal(res.Data))
}

func TestExecuteQuery(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"$.store.bicycle.color", `"red"`},
		{"store.bicycle.color", `"red"`},
		{"$['store']['bicycle']", `{"color":"red","price":19.95}`},
		{"$.store.book[0].title", `"Sayings of the Century"`},
		{"$.store.book[-1].author", `"J. R. R. Tolkien"`},
		{"$.store.book.1.price", `12.99`},
		{"$.store.book.length", `4`},
		{"$.store.book[0].author.length", `10`},
		{"$.store.book[*].author", `["Nigel Rees","Evelyn Waugh","Herman Melville","J. R. R. Tolkien"]`},
		{"$..author", `["Nigel Rees","Evelyn Waugh","Herman Melville","J. R. R. Tolkien"]`},
		{"$.store.*", `[[{"category":"reference","author":"Nigel Rees","title":"Sayings of the Century","price":8.95},{"category":"fiction","author":"Evelyn Waugh","title":"Sword of Honour","price":12.99},{"category":"fiction","author":"Herman Melville","title":"Moby Dick","isbn":"0-553-21311-3","price":8.99},{"category":"fiction","author":"J. R. R. Tolkien","title":"The Lord of the Rings","isbn":"0-395-19395-8","price":22.99}],{"color":"red","price":19.95}]`},
		{"$.store..price", `[8.95,12.99,8.99,22.99,19.95]`},
		{"$..book[2].title", `["Moby Dick"]`},
		{"$..book[0:2].price", `[8.95,12.99]`},
		{"$..book[-2:].price", `[8.99,22.99]`},
		{"$.store.book[::2].price", `[8.95,8.99]`},
		{"$.store.book[0,2].price", `[8.95,8.99]`},
		{"$.store.bicycle['color','price']", `["red",19.95]`},
		{"$..book[?(@.isbn)].title", `["Moby Dick","The Lord of the Rings"]`},
		{"$..book[?(@.price < 10)].price", `[8.95,8.99]`},
		{"$..book[?(@.price > $.expensive)].title", `["Sword of Honour","The Lord of the Rings"]`},
		{"$..book[?(@.category == 'fiction' && @.price < 15)].author", `["Evelyn Waugh","Herman Melville"]`},
		{"$..book[?(@.author =~ /^j\\./i)].title", `["The Lord of the Rings"]`},
		{"$..book[?(!@.isbn)].price", `[8.95,12.99]`},
		{"$..book[?(@['category'] === 'reference' || (@.price > 20))].price", `[8.95,22.99]`},
		{"$.store.bicycle[?(@ == 'red')]", `["red"]`},
		{"$", store},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if tt.path == "$" {
				assert.JSONEq(t, tt.want, query(t, store, tt.path))
				return
			}
			assert.Equal(t, tt.want, query(t, store, tt.path))
		})
	}
}

func TestExecuteQuery_BlankPathIsIdentity(t *testing.T) {
	v := value.MustParse(`{"b":1,"a":[true]}`)
	for _, path := range []string{"", "   ", "\n\t"} {
		res := ExecuteQuery(v, path)
		assert.Empty(t, res.Error)
		assert.Same(t, v.(*value.Object), res.Data.(*value.Object))
	}

	scalar := ExecuteQuery(value.Int(3), "")
	assert.Equal(t, value.Int(3), scalar.Data)
}

func TestExecuteQuery_NoMatch(t *testing.T) {
	for _, path := range []string{"$.missing", "$.store.book[10]", "$..nothing", "$.store.book[?(@.price > 100)]", "$.expensive.deeper"} {
		res := ExecuteQuery(value.MustParse(store), path)
		assert.Empty(t, res.Error, path)
		assert.Nil(t, res.Data, path)
	}
}

func TestExecuteQuery_NullMatchIsBare(t *testing.T) {
	res := ExecuteQuery(value.MustParse(`{"a":null}`), "$.a")
	assert.Empty(t, res.Error)
	assert.Equal(t, value.Null{}, res.Data)
}

func TestExecuteQuery_LooseEquality(t *testing.T) {
	doc := `[{"n":"1"},{"n":1},{"n":true},{"n":null},{}]`
	assert.Equal(t, `[{"n":"1"},{"n":1},{"n":true}]`, query(t, doc, "$[?(@.n == 1)]"))
	assert.Equal(t, `[{"n":1}]`, query(t, doc, "$[?(@.n === 1)]"))
	assert.Equal(t, `[{"n":null},{}]`, query(t, doc, "$[?(@.n == null)]"))
	assert.Equal(t, `[{}]`, query(t, doc, "$[?(@.n === undefined)]"))
}

func TestExecuteQuery_RegexLiteralsWithBrackets(t *testing.T) {
	doc := `{"items":[{"name":"a)b"},{"name":"(555) 123"},{"name":"x]y"},{"name":"a/b"},{"name":"plain"}]}`

	tests := []struct {
		path string
		want string
	}{
		{`$.items[?(@.name =~ /\)/)].name`, `["a)b","(555) 123"]`},
		{`$.items[?(@.name =~ /^\(555\)/)].name`, `["(555) 123"]`},
		{`$.items[?(@.name =~ /[)\]]/)].name`, `["a)b","(555) 123","x]y"]`},
		{`$.items[?(@.name =~ /[]]/)].name`, `["x]y"]`},
		{`$.items[?(@.name =~ /a\/b/)].name`, `["a/b"]`},
		{`$.items[?(@.name =~ /[/]/)].name`, `["a/b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, query(t, doc, tt.path))
		})
	}
}

func TestExecuteQuery_Errors(t *testing.T) {
	tests := []struct {
		path string
		kind error
	}{
		{"$.store[", ErrInvalidPath},
		{"$.store.", ErrInvalidPath},
		{"$store", ErrInvalidPath},
		{"$.a[1:2:0]", ErrInvalidPath},
		{"$.a['x]", ErrInvalidPath},
		{"$.a[(@.length-1)]", ErrInvalidPath},
		{"$.a[?(@.b ==)]", ErrInvalidFilter},
		{"$.a[?(@.b =~ /(?<=x)y/)]", ErrInvalidFilter},
		{"$.a[?(@.b = 1)]", ErrInvalidFilter},
		{"$.a[?(@.b =~ /abc)]", ErrInvalidPath},
		{"$.a[?(foo)]", ErrInvalidFilter},
		{"$.a[?()]", ErrInvalidFilter},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := Compile(tt.path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), err.Error())

			var qe *Error
			require.ErrorAs(t, err, &qe)

			res := ExecuteQuery(value.MustParse(`{"a":[]}`), tt.path)
			assert.Nil(t, res.Data)
			assert.Equal(t, err.Error(), res.Error)
		})
	}
}

func TestCompile_Reuse(t *testing.T) {
	p := MustCompile("$.items[*].id")
	assert.Equal(t, "$.items[*].id", p.String())

	assert.Equal(t, `[1,2]`, string(value.Marshal(p.Evaluate(value.MustParse(`{"items":[{"id":1},{"id":2}]}`)))))
	assert.Equal(t, `[3]`, string(value.Marshal(p.Evaluate(value.MustParse(`{"items":[{"id":3}]}`)))))
	assert.Nil(t, p.Evaluate(value.MustParse(`{"items":[]}`)))
}

func TestSelect_QuotedNamesWithSpecialCharacters(t *testing.T) {
	doc := value.MustParse(`{"a.b":{"c]d":1},"x,y":2,"it's":3}`)

	assert.Equal(t, []value.Value{value.Number("1")}, MustCompile(`$['a.b']['c]d']`).Select(doc))
	assert.Equal(t, []value.Value{value.Number("2")}, MustCompile(`$["x,y"]`).Select(doc))
	assert.Equal(t, []value.Value{value.Number("3")}, MustCompile(`$['it\'s']`).Select(doc))
}
