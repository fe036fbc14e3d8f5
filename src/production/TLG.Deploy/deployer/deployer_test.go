package deployer

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	logger "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Logger"
)

const serverlessYml = `service: templog
provider:
  name: aws
functions:
  auth:
    handler: bootstrap
  devices:
    handler: bootstrap
  outside-temp:
    handler: bootstrap
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestListFunctionsKeepsFileOrder(t *testing.T) {
	names, err := ListFunctions(writeFile(t, "serverless.yml", serverlessYml))
	require.NoError(t, err)
	assert.Equal(t, []string{"auth", "devices", "outside-temp"}, names)
}

func TestListFunctionsWithoutFunctions(t *testing.T) {
	_, err := ListFunctions(writeFile(t, "serverless.yml", "service: templog\n"))
	assert.Error(t, err)
}

func TestCheckEnv(t *testing.T) {
	path := writeFile(t, ".env", "APP_NAME=templog\nIAM_PROFILE=me\nDOMAIN=https://a\n")

	_, err := CheckEnv(path, RequiredEnv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEV_DOMAIN")

	path = writeFile(t, ".env", "APP_NAME=templog\nIAM_PROFILE=me\nDOMAIN=https://a\nDEV_DOMAIN=http://localhost:3000\n")
	values, err := CheckEnv(path, RequiredEnv)
	require.NoError(t, err)
	assert.Equal(t, "templog", values["APP_NAME"])
}

func TestEnsureGeneratedEnvCreatesSecrets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "generated.env")

	created, err := EnsureGeneratedEnv(path, func() (string, error) { return "hunter2", nil })
	require.NoError(t, err)
	assert.True(t, created)

	values, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Len(t, values["JWT_SECRET"], 64)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(values["HASHED_PASSWORD"]), []byte("hunter2")))

	cost, err := bcrypt.Cost([]byte(values["HASHED_PASSWORD"]))
	require.NoError(t, err)
	assert.Equal(t, 10, cost)
}

func TestEnsureGeneratedEnvKeepsExistingSecrets(t *testing.T) {
	path := writeFile(t, "generated.env", "HASHED_PASSWORD=abc\nJWT_SECRET=def\n")

	created, err := EnsureGeneratedEnv(path, func() (string, error) {
		t.Fatal("password should not be asked for")
		return "", nil
	})
	require.NoError(t, err)
	assert.False(t, created)
}

func TestSelectStage(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		stage   string
		wantErr error
	}{
		{"dev by number", "1\n", "dev", nil},
		{"dev by name", "dev\n", "dev", nil},
		{"prod confirmed", "2\ndeploy to prod\n", "prod", nil},
		{"prod not confirmed", "prod\nyes\n", "", ErrProdNotConfirmed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			stage, err := SelectStage(NewPrompter(strings.NewReader(tt.input), &out))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.stage, stage)
		})
	}
}

func TestChooseRejectsUnknownAnswer(t *testing.T) {
	var out strings.Builder
	_, err := NewPrompter(strings.NewReader("7\n"), &out).Choose("Pick", []string{"a", "b"})
	assert.Error(t, err)
	assert.Contains(t, out.String(), "2) b")
}

type call struct {
	env  []string
	name string
	args []string
}

type fakeRunner struct {
	calls []call
	err   error
}

func (f *fakeRunner) Run(ctx context.Context, env []string, name string, args ...string) error {
	f.calls = append(f.calls, call{env: env, name: name, args: args})
	if f.err != nil {
		return f.err
	}
	if name == "go" {
		for i, arg := range args {
			if arg == "-o" {
				out := args[i+1]
				if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
					return err
				}
				return os.WriteFile(out, []byte("binary"), 0o755)
			}
		}
	}
	return nil
}

func TestBuildCompilesEveryFunctionForArm64(t *testing.T) {
	buildDir := filepath.Join(t.TempDir(), "build")
	require.NoError(t, os.MkdirAll(filepath.Join(buildDir, "stale"), 0o755))

	runner := &fakeRunner{}
	d := NewDeployer(runner, buildDir, logger.Nop())
	require.NoError(t, d.Build(context.Background(), []string{"auth", "devices"}))

	require.Len(t, runner.calls, 2)
	first := runner.calls[0]
	assert.Equal(t, "go", first.name)
	assert.Contains(t, first.env, "GOARCH=arm64")
	assert.Contains(t, first.env, "GOOS=linux")
	assert.Contains(t, first.args, filepath.Join(buildDir, "auth", "bootstrap"))
	assert.Equal(t, FunctionsDir+"/auth", first.args[len(first.args)-1])

	assert.NoDirExists(t, filepath.Join(buildDir, "stale"))

	zr, err := zip.OpenReader(filepath.Join(buildDir, "devices.zip"))
	require.NoError(t, err)
	defer zr.Close()
	require.Len(t, zr.File, 1)
	assert.Equal(t, "bootstrap", zr.File[0].Name)
}

func TestBuildStopsOnCompileError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exit status 1")}
	d := NewDeployer(runner, filepath.Join(t.TempDir(), "build"), logger.Nop())

	err := d.Build(context.Background(), []string{"auth", "devices"})
	require.Error(t, err)
	assert.Len(t, runner.calls, 1)
}

func TestDeployArguments(t *testing.T) {
	runner := &fakeRunner{}
	d := NewDeployer(runner, "build", logger.Nop())

	require.NoError(t, d.Deploy(context.Background(), "dev", AllFunctions))
	require.NoError(t, d.Deploy(context.Background(), "prod", "auth"))

	assert.Equal(t, "serverless", runner.calls[0].name)
	assert.Equal(t, []string{"deploy", "--stage", "dev", "--verbose"}, runner.calls[0].args)
	assert.Equal(t, []string{"deploy", "function", "-f", "auth", "--stage", "prod", "--verbose"}, runner.calls[1].args)
}
