package sis

import (
	"errors"
	"fmt"
)

// Shader program errors.
var (
	// ErrUnknownUniform is returned when addressing a uniform name the
	// program does not declare.
	ErrUnknownUniform = errors.New("sis: unknown uniform")

	// ErrUniformKind is returned when a value does not match the
	// declared kind of its uniform slot.
	ErrUniformKind = errors.New("sis: uniform kind mismatch")

	// ErrUniformNotSet is returned at bind time when a declared uniform
	// has never been assigned a value.
	ErrUniformNotSet = errors.New("sis: uniform not set")

	// ErrNilTexture is returned when assigning a nil texture to a
	// texture uniform.
	ErrNilTexture = errors.New("sis: nil texture")
)

// fragmentFunc shades one output pixel at absolute coordinates (px, py)
// and returns its RGB color.
type fragmentFunc func(px, py int) (r, g, b uint8)

// bindFunc validates a program's uniforms against a strip quad and
// returns the pixel shading closure. Validation happens once per draw;
// the closure runs once per pixel with no further dispatch.
type bindFunc func(p *Program, quad StripQuad) (fragmentFunc, error)

// Program is a strip shader: a named set of typed uniform slots plus
// the fragment logic that consumes them. One Program drives both the
// software rasterizer, through its bound closure, and a registered
// accelerator, through its WGSL source.
//
// A Program is owned by a single renderer and is not safe for
// concurrent use.
type Program struct {
	name  string
	wgsl  string
	decls []UniformDecl
	slots []uniformValue
	bind  bindFunc
}

// newProgram builds a program from its declaration list. Slots start
// unset; bind fails until every declared uniform has a value.
func newProgram(name, wgsl string, decls []UniformDecl, bind bindFunc) *Program {
	slots := make([]uniformValue, len(decls))
	for i, d := range decls {
		slots[i].kind = d.Kind
	}
	return &Program{
		name:  name,
		wgsl:  wgsl,
		decls: decls,
		slots: slots,
		bind:  bind,
	}
}

// Name returns the program name.
func (p *Program) Name() string {
	return p.name
}

// WGSL returns the compute shader source equivalent to the program's
// fragment logic. Accelerators compile this once at pipeline setup.
func (p *Program) WGSL() string {
	return p.wgsl
}

// Uniforms returns a copy of the program's uniform declarations in
// slot order.
func (p *Program) Uniforms() []UniformDecl {
	out := make([]UniformDecl, len(p.decls))
	copy(out, p.decls)
	return out
}

// slot returns the index of the named uniform, or an error if the
// program does not declare it.
func (p *Program) slot(name string) (int, error) {
	for i, d := range p.decls {
		if d.Name == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q in program %q", ErrUnknownUniform, name, p.name)
}

// SetFloat assigns a scalar uniform.
func (p *Program) SetFloat(name string, v float64) error {
	i, err := p.slot(name)
	if err != nil {
		return err
	}
	if p.decls[i].Kind != UniformFloat {
		return fmt.Errorf("%w: %q is %s, not Float", ErrUniformKind, name, p.decls[i].Kind)
	}
	p.slots[i].f = v
	p.slots[i].set = true
	return nil
}

// SetVec2 assigns a two-component uniform.
func (p *Program) SetVec2(name string, x, y float64) error {
	i, err := p.slot(name)
	if err != nil {
		return err
	}
	if p.decls[i].Kind != UniformVec2 {
		return fmt.Errorf("%w: %q is %s, not Vec2", ErrUniformKind, name, p.decls[i].Kind)
	}
	p.slots[i].v = [2]float64{x, y}
	p.slots[i].set = true
	return nil
}

// SetTexture assigns a texture uniform. The program holds a reference
// to the texture; it does not copy the pixels.
func (p *Program) SetTexture(name string, t *Texture) error {
	i, err := p.slot(name)
	if err != nil {
		return err
	}
	if p.decls[i].Kind != UniformTexture {
		return fmt.Errorf("%w: %q is %s, not Texture", ErrUniformKind, name, p.decls[i].Kind)
	}
	if t == nil {
		return fmt.Errorf("%w: uniform %q", ErrNilTexture, name)
	}
	p.slots[i].tex = t
	p.slots[i].set = true
	return nil
}

// Float reads back a scalar uniform. Accelerators use the getters to
// serialize uniform state into GPU parameter buffers.
func (p *Program) Float(name string) (float64, error) {
	i, err := p.value(name, UniformFloat)
	if err != nil {
		return 0, err
	}
	return p.slots[i].f, nil
}

// Vec2 reads back a two-component uniform.
func (p *Program) Vec2(name string) (x, y float64, err error) {
	i, err := p.value(name, UniformVec2)
	if err != nil {
		return 0, 0, err
	}
	return p.slots[i].v[0], p.slots[i].v[1], nil
}

// Texture reads back a texture uniform.
func (p *Program) Texture(name string) (*Texture, error) {
	i, err := p.value(name, UniformTexture)
	if err != nil {
		return nil, err
	}
	return p.slots[i].tex, nil
}

// value resolves a uniform slot for reading, checking kind and that a
// value has been assigned.
func (p *Program) value(name string, kind UniformKind) (int, error) {
	i, err := p.slot(name)
	if err != nil {
		return 0, err
	}
	if p.decls[i].Kind != kind {
		return 0, fmt.Errorf("%w: %q is %s, not %s", ErrUniformKind, name, p.decls[i].Kind, kind)
	}
	if !p.slots[i].set {
		return 0, fmt.Errorf("%w: %q in program %q", ErrUniformNotSet, name, p.name)
	}
	return i, nil
}

// bindFragment validates the uniform set against a quad and returns
// the shading closure for one strip draw.
func (p *Program) bindFragment(quad StripQuad) (fragmentFunc, error) {
	if p.bind == nil {
		return nil, fmt.Errorf("sis: program %q has no fragment binding", p.name)
	}
	return p.bind(p, quad)
}
