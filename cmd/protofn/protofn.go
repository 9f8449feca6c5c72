// Command protofn lists the native builtins of protocore and its core
// extensions: every package-level function assignable to internal.Fn.
//
// The output is a YAML document mapping each package path to the builtins it
// defines, keyed by the name a program would likely see.
package main

import (
	"fmt"
	"go/token"
	"go/types"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/spf13/pflag"
	"golang.org/x/tools/go/packages"
	"gopkg.in/yaml.v2"
)

const corePath = "github.com/zephyrtronium/protocore/internal"

func main() {
	var match, ignore, core string
	pflag.StringVar(&match, "match", ".", "include only functions matching this regular expression")
	pflag.StringVar(&ignore, "ignore", "$^", "exclude functions matching this regular expression")
	pflag.StringVar(&core, "core", corePath, "import path of the package defining Fn")
	pflag.Parse()
	mre, err := regexp.Compile(match)
	if err != nil {
		fail("error compiling match:", err)
	}
	ire, err := regexp.Compile(ignore)
	if err != nil {
		fail("error compiling ignore:", err)
	}
	args := pflag.Args()
	if len(args) == 0 {
		args = []string{"github.com/zephyrtronium/protocore/coreext/..."}
	}

	fset := token.NewFileSet()
	config := packages.Config{Mode: packages.NeedName | packages.NeedTypes | packages.NeedImports, Fset: fset}
	pkgs, err := packages.Load(&config, append([]string{core}, args...)...)
	if err != nil {
		fail("error loading packages:", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		os.Exit(1)
	}
	fn := getFn(pkgs, core)
	out := yaml.MapSlice{}
	for _, pkg := range pkgs {
		found := find(pkg.Types.Scope(), fn, mre, ire)
		if len(found) == 0 {
			continue
		}
		entries := yaml.MapSlice{}
		for _, name := range found {
			entries = append(entries, yaml.MapItem{Key: builtinName(name, mre), Value: name})
		}
		out = append(out, yaml.MapItem{Key: pkg.PkgPath, Value: entries})
	}
	b, err := yaml.Marshal(out)
	if err != nil {
		fail("error encoding results:", err)
	}
	os.Stdout.Write(b)
}

func fail(args ...any) {
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(1)
}

func getFn(pkgs []*packages.Package, core string) types.Type {
	var pkg *packages.Package
	for _, p := range pkgs {
		if p.PkgPath == core {
			pkg = p
			break
		}
	}
	if pkg == nil {
		fail("package", core, "was not loaded")
	}
	r := pkg.Types.Scope().Lookup("Fn")
	if r == nil {
		fail(pkg.Name, "has no definition of Fn")
	}
	t, ok := r.(*types.TypeName)
	if !ok {
		fail(pkg.Name, "has incorrect definition of Fn:", r)
	}
	return t.Type().Underlying()
}

// find returns the sorted names of functions in scope assignable to fn.
func find(scope *types.Scope, fn types.Type, mre, ire *regexp.Regexp) []string {
	var r []string
	for _, name := range scope.Names() {
		if !mre.MatchString(name) || ire.MatchString(name) {
			continue
		}
		obj, ok := scope.Lookup(name).(*types.Func)
		if !ok {
			continue
		}
		if types.AssignableTo(obj.Type(), fn) {
			r = append(r, name)
		}
	}
	sort.Strings(r)
	return r
}

// builtinName guesses the program-visible name of a builtin from its Go name:
// the part after the match, or after the leading lowercase receiver word.
func builtinName(name string, mre *regexp.Regexp) string {
	if mre.String() != "." {
		k := mre.FindStringIndex(name)
		name = name[k[1]:]
	} else if i := strings.IndexFunc(name, unicode.IsUpper); i > 0 {
		name = name[i:]
	}
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}
