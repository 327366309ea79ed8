package create

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calderanet/caldera-cli/internal/config"
	"github.com/calderanet/caldera-cli/internal/testutil"
)

func newTestHandler(t *testing.T, repo config.TemplateRepository) *handler {
	return &handler{
		log: testutil.NewTestLogger(),
		cfg: &config.Config{
			ProjectTemplateRepository: repo,
			WasmTemplateRepository:    repo,
		},
		baseDir: t.TempDir(),
	}
}

func seedProjectTemplates(t *testing.T) (*testutil.GitFixture, config.TemplateRepository) {
	fixture := testutil.NewGitFixture(t, "main")
	fixture.WriteDescriptor("templates/basic", "Basic Project", "A starter project")
	fixture.WriteFile("templates/basic/Cargo.toml", "[package]\nname = \"{{ project_name }}\"\n")
	fixture.WriteFile("templates/basic/src/lib.rs", "// {{ project_name }}\n")
	fixture.Commit("add basic template")

	return fixture, config.TemplateRepository{
		URL:    fixture.RemotePath,
		Branch: "main",
		Folder: "templates",
	}
}

func TestCreateProjectFromTemplate(t *testing.T) {
	_, repo := seedProjectTemplates(t)
	h := newTestHandler(t, repo)

	targetDir := t.TempDir()
	inputs := Inputs{
		ProjectName: "my-token",
		TemplateID:  "basic_project",
		TargetDir:   targetDir,
	}
	require.NoError(t, h.ValidateInputs(inputs))
	require.NoError(t, h.Execute(context.Background(), inputs))

	projectDir := filepath.Join(targetDir, "my-token")
	require.DirExists(t, projectDir)

	manifest, err := os.ReadFile(filepath.Join(projectDir, "Cargo.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(manifest), `name = "my-token"`)

	// The descriptor itself must not end up in the generated project.
	assert.NoFileExists(t, filepath.Join(projectDir, "template.toml"))

	// Fresh projects start out as git repositories.
	assert.DirExists(t, filepath.Join(projectDir, ".git"))
}

func TestCreateSeedsRequestedContracts(t *testing.T) {
	fixture := testutil.NewGitFixture(t, "main")
	fixture.WriteFile("templates/workspace/template.toml",
		"name = \"Workspace\"\ndescription = \"A workspace project\"\n\n[extra]\ninit_wasm_templates = \"counter\"\n")
	fixture.WriteFile("templates/workspace/Cargo.toml", "[workspace]\nmembers = []\n")
	fixture.WriteDescriptor("templates/counter", "Counter", "A counter contract")
	fixture.WriteFile("templates/counter/src/lib.rs", "// {{ contract_name }}\n")
	fixture.Commit("add workspace and counter templates")

	repo := config.TemplateRepository{
		URL:    fixture.RemotePath,
		Branch: "main",
		Folder: "templates",
	}
	h := newTestHandler(t, repo)

	targetDir := t.TempDir()
	inputs := Inputs{
		ProjectName: "my-dapp",
		TemplateID:  "workspace",
		TargetDir:   targetDir,
	}
	require.NoError(t, h.ValidateInputs(inputs))
	require.NoError(t, h.Execute(context.Background(), inputs))

	projectDir := filepath.Join(targetDir, "my-dapp")
	require.DirExists(t, filepath.Join(projectDir, "templates", "counter"))

	root, err := os.ReadFile(filepath.Join(projectDir, "Cargo.toml"))
	require.NoError(t, err)

	var workspace struct {
		Workspace struct {
			Members []string `toml:"members"`
		} `toml:"workspace"`
	}
	require.NoError(t, toml.Unmarshal(root, &workspace))
	assert.Contains(t, workspace.Workspace.Members, "templates/counter")
}

func TestCreateUnknownTemplateID(t *testing.T) {
	_, repo := seedProjectTemplates(t)
	h := newTestHandler(t, repo)

	inputs := Inputs{
		ProjectName: "my-token",
		TemplateID:  "no_such_template",
		TargetDir:   t.TempDir(),
	}
	require.NoError(t, h.ValidateInputs(inputs))

	err := h.Execute(context.Background(), inputs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no_such_template")
	assert.Contains(t, err.Error(), "basic_project")
}

func TestCreateRequiresValidation(t *testing.T) {
	_, repo := seedProjectTemplates(t)
	h := newTestHandler(t, repo)

	err := h.Execute(context.Background(), Inputs{ProjectName: "my-token"})
	assert.Error(t, err)
}

func TestCreateRejectsBadProjectName(t *testing.T) {
	_, repo := seedProjectTemplates(t)
	h := newTestHandler(t, repo)

	err := h.ValidateInputs(Inputs{ProjectName: "bad name!"})
	assert.Error(t, err)
}

func TestPickTemplateByID(t *testing.T) {
	_, repo := seedProjectTemplates(t)
	h := newTestHandler(t, repo)

	catalog, err := SyncAndCollect(context.Background(), h.log, h.baseDir, repo)
	require.NoError(t, err)
	require.Len(t, catalog, 1)

	tmpl, err := PickTemplate(catalog, "basic_project")
	require.NoError(t, err)
	assert.Equal(t, "Basic Project", tmpl.Name())
}
