package override

import "github.com/invopop/jsonschema"

// Schema describes Document for editor tooling and CI validation.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
	}
	schema := reflector.Reflect(new(Document))
	schema.Title = "Motion Graph Override Asset"
	schema.Description = "Replacement values for the data entries of one graph template"
	return schema
}
