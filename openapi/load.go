package openapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/asaskevich/govalidator"
	"github.com/getkin/kin-openapi/openapi3"
)

var (
	// ErrNoSpec is returned when no document location is given.
	ErrNoSpec = errors.New("no OpenAPI document location given")
	// ErrSpecNotFound is returned when a document file does not exist.
	ErrSpecNotFound = errors.New("OpenAPI document not found")
)

func newLoader(ctx context.Context) *openapi3.Loader {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = true
	return loader
}

// Load reads the document at location. Locations that are HTTP(S) URLs are
// fetched, anything else is read as a file path.
func Load(ctx context.Context, location string) (*openapi3.T, error) {
	if location == "" {
		return nil, ErrNoSpec
	}

	loader := newLoader(ctx)

	// The first read is the root document; its bytes give the path order.
	var root []byte
	loader.ReadFromURIFunc = func(l *openapi3.Loader, u *url.URL) ([]byte, error) {
		data, err := openapi3.DefaultReadFromURI(l, u)
		if err == nil && root == nil {
			root = data
		}
		return data, err
	}

	if IsURL(location) {
		u, err := url.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("parse document URL %q: %w", location, err)
		}
		doc, err := loader.LoadFromURI(u)
		if err != nil {
			return nil, fmt.Errorf("failed to load OpenAPI document %s: %w", location, err)
		}
		recordPathOrder(doc, root)
		return doc, nil
	}

	if _, err := os.Stat(location); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSpecNotFound, location)
	}
	doc, err := loader.LoadFromFile(location)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document %s: %w", location, err)
	}
	recordPathOrder(doc, root)
	return doc, nil
}

// LoadData parses a JSON or YAML document held in memory.
func LoadData(ctx context.Context, data []byte) (*openapi3.T, error) {
	doc, err := newLoader(ctx).LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document: %w", err)
	}
	recordPathOrder(doc, data)
	return doc, nil
}

// IsURL reports whether location should be fetched rather than read from disk.
func IsURL(location string) bool {
	if !govalidator.IsRequestURL(location) {
		return false
	}
	u, err := url.Parse(location)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}
