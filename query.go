package gqlintrospect

import (
	"strings"
)

// The query used to determine type information
const query = `
query IntrospectionQuery {
  __schema {
    description
    queryType {
      name
    }
    mutationType {
      name
    }
    subscriptionType {
      name
    }
    types {
      ...FullType
    }
    directives {
      name
      description
      isRepeatable
      locations
      args(includeDeprecated: true) {
        ...InputValue
      }
    }
  }
}

fragment FullType on __Type {
  kind
  name
  description
  specifiedByURL
  fields(includeDeprecated: true) {
    name
    description
    args(includeDeprecated: true) {
      ...InputValue
    }
    type {
      ...TypeRef
    }
    isDeprecated
    deprecationReason
  }
  inputFields(includeDeprecated: true) {
    ...InputValue
  }
  interfaces {
    ...TypeRef
  }
  enumValues(includeDeprecated: true) {
    name
    description
    isDeprecated
    deprecationReason
  }
  possibleTypes {
    ...TypeRef
  }
}

fragment InputValue on __InputValue {
  name
  description
  type {
    ...TypeRef
  }
  defaultValue
  isDeprecated
  deprecationReason
}

fragment TypeRef on __Type {
  kind
  name
  ofType {
    kind
    name
    ofType {
      kind
      name
      ofType {
        kind
        name
        ofType {
          kind
          name
          ofType {
            kind
            name
            ofType {
              kind
              name
              ofType {
                kind
                name
              }
            }
          }
        }
      }
    }
  }
}
`

// GraphQL 15 servers spell specifiedByUrl differently and do not all support
// input value deprecation.
var graphQL15Query = strings.NewReplacer(
	"specifiedByURL", GraphQL15.specifiedByKey(),
	"args(includeDeprecated: true)", "args",
	"inputFields(includeDeprecated: true)", "inputFields",
	"  defaultValue\n  isDeprecated\n  deprecationReason\n", "  defaultValue\n",
).Replace(query)

// Query returns the introspection query document for a revision. Its TypeRef
// fragment selects MaxTypeRefDepth nested ofType levels.
func Query(rev Revision) string {
	if rev == GraphQL15 {
		return graphQL15Query
	}
	return query
}
