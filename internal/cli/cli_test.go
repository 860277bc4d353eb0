package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// isolateConfiguration points the configuration lookup at empty directories so
// no developer machine configuration leaks into the test.
func isolateConfiguration(t *testing.T) {
	t.Helper()
	emptyHomeDirectory := t.TempDir()
	t.Setenv("HOME", emptyHomeDirectory)
	t.Setenv("USERPROFILE", emptyHomeDirectory)
	previousWorkingDirectory, getwdError := os.Getwd()
	if getwdError != nil {
		t.Fatalf("reading working directory failed: %v", getwdError)
	}
	if chdirError := os.Chdir(t.TempDir()); chdirError != nil {
		t.Fatalf("changing working directory failed: %v", chdirError)
	}
	t.Cleanup(func() {
		if chdirError := os.Chdir(previousWorkingDirectory); chdirError != nil {
			t.Errorf("restoring working directory failed: %v", chdirError)
		}
	})
}

func buildSampleTree(t *testing.T) string {
	t.Helper()
	rootPath := filepath.Join(t.TempDir(), "root")
	for _, directoryPath := range []string{
		filepath.Join(rootPath, "dir1"),
		filepath.Join(rootPath, "dir2"),
	} {
		if mkdirError := os.MkdirAll(directoryPath, 0o755); mkdirError != nil {
			t.Fatalf("creating %s failed: %v", directoryPath, mkdirError)
		}
	}
	filePath := filepath.Join(rootPath, "dir1", "file1.txt")
	if writeError := os.WriteFile(filePath, []byte("content"), 0o644); writeError != nil {
		t.Fatalf("creating %s failed: %v", filePath, writeError)
	}
	return rootPath
}

func TestRootCommandRendersTreeToFile(t *testing.T) {
	isolateConfiguration(t)
	rootPath := buildSampleTree(t)
	outputFilePath := filepath.Join(t.TempDir(), "tree.txt")

	rootCommand := createRootCommand(zap.NewNop())
	rootCommand.SetArgs([]string{"-o", outputFilePath, rootPath})
	rootCommand.SetOut(&bytes.Buffer{})
	rootCommand.SetErr(&bytes.Buffer{})
	if executeError := rootCommand.Execute(); executeError != nil {
		t.Fatalf("execute failed: %v", executeError)
	}

	renderedBytes, readError := os.ReadFile(outputFilePath)
	if readError != nil {
		t.Fatalf("reading rendered file failed: %v", readError)
	}
	expectedOutput := "root/\n" +
		"|\n" +
		"├── dir1/\n" +
		"|   |   file1.txt\n" +
		"└── dir2/\n"
	if string(renderedBytes) != expectedOutput {
		t.Fatalf("unexpected rendered tree:\n got: %q\nwant: %q", string(renderedBytes), expectedOutput)
	}
}

func TestRootCommandHonorsIgnoreFlags(t *testing.T) {
	isolateConfiguration(t)
	rootPath := buildSampleTree(t)
	outputFilePath := filepath.Join(t.TempDir(), "tree.txt")

	rootCommand := createRootCommand(zap.NewNop())
	rootCommand.SetArgs([]string{"-i", "dir2", "-o", outputFilePath, rootPath})
	rootCommand.SetOut(&bytes.Buffer{})
	rootCommand.SetErr(&bytes.Buffer{})
	if executeError := rootCommand.Execute(); executeError != nil {
		t.Fatalf("execute failed: %v", executeError)
	}

	renderedBytes, readError := os.ReadFile(outputFilePath)
	if readError != nil {
		t.Fatalf("reading rendered file failed: %v", readError)
	}
	expectedOutput := "root/\n" +
		"|\n" +
		"├── dir1/\n" +
		"|   |   file1.txt\n" +
		"└── dir2/\n" +
		"└── |   ...\n"
	if string(renderedBytes) != expectedOutput {
		t.Fatalf("unexpected rendered tree:\n got: %q\nwant: %q", string(renderedBytes), expectedOutput)
	}
}

func TestRootCommandRequiresPositionalPathWhenFlagsArePresent(t *testing.T) {
	isolateConfiguration(t)

	rootCommand := createRootCommand(zap.NewNop())
	rootCommand.SetArgs([]string{"-i", "dir2"})
	rootCommand.SetOut(&bytes.Buffer{})
	rootCommand.SetErr(&bytes.Buffer{})
	executeError := rootCommand.Execute()
	if executeError == nil {
		t.Fatal("expected an error when flags are given without a root path")
	}
	if !strings.Contains(executeError.Error(), errorRootPathRequiredMessage) {
		t.Fatalf("unexpected error: %v", executeError)
	}
}

func TestRootCommandAppliesConfigurationDefaults(t *testing.T) {
	isolateConfiguration(t)
	rootPath := buildSampleTree(t)
	outputFilePath := filepath.Join(t.TempDir(), "configured.txt")

	configurationContent := "render:\n" +
		"  output_file: " + outputFilePath + "\n" +
		"  ignore:\n" +
		"    - dir1\n"
	if writeError := os.WriteFile(".treeline.yaml", []byte(configurationContent), 0o600); writeError != nil {
		t.Fatalf("writing local configuration failed: %v", writeError)
	}

	rootCommand := createRootCommand(zap.NewNop())
	rootCommand.SetArgs([]string{rootPath})
	rootCommand.SetOut(&bytes.Buffer{})
	rootCommand.SetErr(&bytes.Buffer{})
	if executeError := rootCommand.Execute(); executeError != nil {
		t.Fatalf("execute failed: %v", executeError)
	}

	renderedBytes, readError := os.ReadFile(outputFilePath)
	if readError != nil {
		t.Fatalf("reading rendered file failed: %v", readError)
	}
	expectedOutput := "root/\n" +
		"|\n" +
		"├── dir1/\n" +
		"├── |   ...\n" +
		"└── dir2/\n"
	if string(renderedBytes) != expectedOutput {
		t.Fatalf("unexpected rendered tree:\n got: %q\nwant: %q", string(renderedBytes), expectedOutput)
	}
}

func TestValidateRootPath(t *testing.T) {
	existingDirectory := t.TempDir()
	existingFilePath := filepath.Join(existingDirectory, "plain.txt")
	if writeError := os.WriteFile(existingFilePath, []byte("x"), 0o644); writeError != nil {
		t.Fatalf("creating file failed: %v", writeError)
	}

	validated, validationError := validateRootPath(existingDirectory)
	if validationError != nil {
		t.Fatalf("expected directory to validate: %v", validationError)
	}
	if !filepath.IsAbs(validated.AbsolutePath) || !validated.IsDir {
		t.Fatalf("unexpected validated path: %+v", validated)
	}

	if _, missingError := validateRootPath(filepath.Join(existingDirectory, "missing")); missingError == nil {
		t.Fatal("expected an error for a missing path")
	}
	if _, fileError := validateRootPath(existingFilePath); fileError == nil {
		t.Fatal("expected an error for a non-directory path")
	}
}

func TestInterpretCopyFlagLiteral(t *testing.T) {
	testCases := []struct {
		literal       string
		expectedValue bool
		expectedOK    bool
	}{
		{literal: "", expectedValue: true, expectedOK: true},
		{literal: "true", expectedValue: true, expectedOK: true},
		{literal: "t", expectedValue: true, expectedOK: true},
		{literal: "1", expectedValue: true, expectedOK: true},
		{literal: "yes", expectedValue: true, expectedOK: true},
		{literal: "y", expectedValue: true, expectedOK: true},
		{literal: "false", expectedValue: false, expectedOK: true},
		{literal: "f", expectedValue: false, expectedOK: true},
		{literal: "0", expectedValue: false, expectedOK: true},
		{literal: "no", expectedValue: false, expectedOK: true},
		{literal: "n", expectedValue: false, expectedOK: true},
		{literal: "maybe", expectedValue: false, expectedOK: false},
	}
	for _, testCase := range testCases {
		value, ok := interpretCopyFlagLiteral(testCase.literal)
		if value != testCase.expectedValue || ok != testCase.expectedOK {
			t.Fatalf("literal %q: got (%v, %v), want (%v, %v)", testCase.literal, value, ok, testCase.expectedValue, testCase.expectedOK)
		}
	}
}

func TestFallbackRenderRequest(t *testing.T) {
	request, requestError := fallbackRenderRequest()
	if requestError != nil {
		t.Fatalf("building fallback request failed: %v", requestError)
	}

	executablePath, executableError := os.Executable()
	if executableError != nil {
		t.Fatalf("locating test binary failed: %v", executableError)
	}
	expectedRoot := filepath.Dir(executablePath)
	if request.RootPath != expectedRoot {
		t.Fatalf("expected root %q, got %q", expectedRoot, request.RootPath)
	}
	if request.OutputFilePath != filepath.Join(expectedRoot, "directory_tree_output.txt") {
		t.Fatalf("unexpected output path %q", request.OutputFilePath)
	}
	if request.FollowSymlinks {
		t.Fatal("fallback mode must not follow symlinks")
	}
	if !request.SafeMode {
		t.Fatal("fallback mode enables safe mode")
	}
	expectedIgnores := []string{"venv", ".git", ".gitignore", ".DS_Store", ".vscode"}
	if len(request.IgnoreNames) != len(expectedIgnores) {
		t.Fatalf("unexpected ignore names %v", request.IgnoreNames)
	}
	for index, name := range expectedIgnores {
		if request.IgnoreNames[index] != name {
			t.Fatalf("expected ignore %q at position %d, got %q", name, index, request.IgnoreNames[index])
		}
	}
}

func TestConfigInitSubcommandWritesLocalFile(t *testing.T) {
	isolateConfiguration(t)
	var commandOutput bytes.Buffer

	rootCommand := createRootCommand(zap.NewNop())
	rootCommand.SetArgs([]string{"config", "init"})
	rootCommand.SetOut(&commandOutput)
	rootCommand.SetErr(&bytes.Buffer{})
	if executeError := rootCommand.Execute(); executeError != nil {
		t.Fatalf("config init failed: %v", executeError)
	}

	if _, statError := os.Stat(".treeline.yaml"); statError != nil {
		t.Fatalf("expected local configuration file: %v", statError)
	}
	if !strings.Contains(commandOutput.String(), "Configuration written to") {
		t.Fatalf("expected confirmation output, got %q", commandOutput.String())
	}
}
