package compiler

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/tclivaque/TL-6.0-RevisionDeTablas-sub000/internal/ir"
)

//go:embed schema.cue
var profileSchema string

// ProfilePath is the top-level field holding the profile.
const ProfilePath = "profile"

// CompileProfile checks v against #Profile and overlays it on the default
// profile. v is the profile struct itself, not the enclosing file.
func CompileProfile(v cue.Value) (ir.Profile, error) {
	if err := v.Err(); err != nil {
		return ir.Profile{}, formatCUEError(err)
	}

	schema := v.Context().CompileString(profileSchema, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return ir.Profile{}, fmt.Errorf("profile schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Profile"))

	unified := def.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return ir.Profile{}, formatCUEError(err)
	}

	p := ir.DefaultProfile()
	if err := unified.Decode(&p); err != nil {
		return ir.Profile{}, formatCUEError(err)
	}

	if errs := ValidateProfile(p); len(errs) > 0 {
		return ir.Profile{}, errs[0]
	}
	return p, nil
}

// CompileProfileString compiles CUE source with a top-level profile field.
func CompileProfileString(src string) (ir.Profile, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename("profile.cue"))
	if err := v.Err(); err != nil {
		return ir.Profile{}, formatCUEError(err)
	}
	return compileRoot(v)
}

// LoadProfileDir loads the CUE package in dir and compiles its profile.
// An empty dir yields the default profile.
func LoadProfileDir(dir string) (ir.Profile, error) {
	if dir == "" {
		return ir.DefaultProfile(), nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return ir.Profile{}, fmt.Errorf("profile directory: %w", err)
	}
	if !info.IsDir() {
		return ir.Profile{}, fmt.Errorf("profile directory: not a directory: %s", dir)
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return ir.Profile{}, fmt.Errorf("no CUE instances loaded from %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return ir.Profile{}, fmt.Errorf("loading CUE files: %w", inst.Err)
	}

	v := cuecontext.New().BuildInstance(inst)
	if err := v.Err(); err != nil {
		return ir.Profile{}, formatCUEError(err)
	}
	return compileRoot(v)
}

func compileRoot(root cue.Value) (ir.Profile, error) {
	v := root.LookupPath(cue.ParsePath(ProfilePath))
	if !v.Exists() {
		return ir.Profile{}, &CompileError{
			Field:   ProfilePath,
			Message: "profile is required",
			Pos:     root.Pos(),
		}
	}
	return CompileProfile(v)
}
