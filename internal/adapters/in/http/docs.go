package http

import (
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

// openAPIDoc is the document echo-swagger serves as doc.json.
type openAPIDoc []byte

func (d openAPIDoc) ReadDoc() string {
	return string(d)
}

var docsOnce sync.Once

// registerDocs publishes swagger under swag's default instance name. swag
// panics on a second registration, so only the first call registers.
func registerDocs(swagger *openapi3.T) error {
	data, err := swagger.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal openapi document: %w", err)
	}
	docsOnce.Do(func() {
		swag.Register(swag.Name, openAPIDoc(data))
	})
	return nil
}
