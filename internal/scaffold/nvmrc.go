package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ba86work/create-next-shadcn-pwa/internal/platform"
)

// NvmrcFile pins the Node.js version for nvm and compatible tools.
const NvmrcFile = ".nvmrc"

// WriteNodeVersion writes version to <projectDir>/.nvmrc.
func WriteNodeVersion(projectDir, version string) error {
	path := filepath.Join(projectDir, NvmrcFile)
	if err := os.WriteFile(path, []byte(version+"\n"), platform.FilePermNormal); err != nil {
		return fmt.Errorf("writing %s: %w", NvmrcFile, err)
	}
	return nil
}
