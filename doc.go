// Package feelgen compiles the request-body schemas of an OpenAPI 3
// document into FEEL validation expressions.
//
// For every configured operation it collects the required fields of the
// request body, following $ref links, allOf/oneOf/anyOf composition and
// nested objects, and turns each into an "invalid" predicate:
//
//	doc, _ := openapi.Load(ctx, "api.yaml")
//	g, _ := feelgen.NewGenerator(feelgen.DefaultOptions())
//	fmt.Println(g.Render(doc))
//
// prints one block per endpoint:
//
//	# POST /customers
//	{
//	  req: request.body,
//	  rules: [
//	    {id: "name-invalid", invalid: req.name=null or not(req.name instance of string) or is blank(req.name)}
//	  ],
//	  isValid: count(rules[invalid=true])=0
//	}.isValid
//
// Set [Options.AddResponse] to render blocks that evaluate to a response
// context with a body and status code instead.
//
// Sub-packages:
//   - openapi – document loading and programmatic document builders
//   - transform – recursive string normalization used for configuration
package feelgen
