package buildtool

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// AddWorkspaceMember registers member (a slash-separated path relative to
// the manifest) in the [workspace].members array of a root Cargo.toml.
// Adding a member that is already listed is a no-op.
func AddWorkspaceMember(manifestPath, member string) error {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("failed to read workspace manifest %s: %w", manifestPath, err)
	}

	var manifest map[string]interface{}
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return fmt.Errorf("failed to parse workspace manifest %s: %w", manifestPath, err)
	}

	workspace, _ := manifest["workspace"].(map[string]interface{})
	if workspace == nil {
		workspace = map[string]interface{}{}
		manifest["workspace"] = workspace
	}

	members, _ := workspace["members"].([]interface{})
	for _, m := range members {
		if existing, ok := m.(string); ok && existing == member {
			return nil
		}
	}
	workspace["members"] = append(members, member)

	f, err := os.Create(manifestPath)
	if err != nil {
		return fmt.Errorf("failed to write workspace manifest %s: %w", manifestPath, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(manifest); err != nil {
		return fmt.Errorf("failed to encode workspace manifest %s: %w", manifestPath, err)
	}
	return nil
}
