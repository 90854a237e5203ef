// Package openapi loads OpenAPI 3 documents and builds them programmatically.
//
// [Load] reads a document from a file path or an HTTP(S) URL. [DocBase],
// [AddSchema] and the endpoint helpers [Get], [Post], [Put], [Patch] and
// [Delete] assemble documents in code:
//
//	type Customer struct {
//	    Name string `json:"name" validate:"required"`
//	}
//
//	doc := openapi.DocBase("customers", "Customer API", "1.0")
//	openapi.Post(doc, "/customers", "createCustomer", openapi.Endpoint{
//	    Request: Customer{},
//	})
package openapi
