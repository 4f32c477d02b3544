//go:build !nogpu

package wgpu

import (
	"strings"
	"testing"

	"github.com/gogpu/naga"
	"github.com/gogpu/sis"
)

func TestSpirvWords(t *testing.T) {
	words := spirvWords([]byte{0x01, 0x02, 0x03, 0x04, 0xFF, 0x00, 0x00, 0x00})
	if len(words) != 2 {
		t.Fatalf("len = %d, want 2", len(words))
	}
	if words[0] != 0x04030201 {
		t.Errorf("words[0] = %#08x, want 0x04030201", words[0])
	}
	if words[1] != 0x000000FF {
		t.Errorf("words[1] = %#08x, want 0x000000FF", words[1])
	}
}

// TestShaderCompilation compiles the embedded WGSL sources through naga
// and checks the SPIR-V header. Skips gracefully when naga lacks a
// feature the shaders use.
func TestShaderCompilation(t *testing.T) {
	progs := []*sis.Program{
		sis.NewNoiseProgram(),
		sis.NewTileProgram(),
		sis.NewDisplaceProgram(),
	}
	for _, prog := range progs {
		t.Run(prog.Name(), func(t *testing.T) {
			wgsl := prog.WGSL()
			if wgsl == "" {
				t.Fatal("shader source is empty")
			}

			spirvBytes, err := naga.Compile(wgsl)
			if err != nil {
				errStr := err.Error()
				if strings.Contains(errStr, "not yet implemented") ||
					strings.Contains(errStr, "not supported") {
					t.Skipf("naga feature not available: %v", err)
				}
				t.Fatalf("compile: %v", err)
			}

			words := spirvWords(spirvBytes)
			if len(words) == 0 {
				t.Fatal("SPIR-V output is empty")
			}
			// SPIR-V magic number.
			if words[0] != 0x07230203 {
				t.Errorf("magic = %#08x, want 0x07230203", words[0])
			}
		})
	}
}
