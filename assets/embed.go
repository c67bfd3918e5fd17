package assets

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

// ClassesJSON contains the default object class names, in class id order
// starting at 1.
//
//go:embed classes.json
var ClassesJSON []byte

// DefaultClassNames decodes the embedded class list.
func DefaultClassNames() ([]string, error) {
	if len(ClassesJSON) == 0 {
		return nil, fmt.Errorf("embedded classes.json is empty")
	}
	var names []string
	if err := json.Unmarshal(ClassesJSON, &names); err != nil {
		return nil, err
	}
	return names, nil
}
