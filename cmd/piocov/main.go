package main

import (
	"flag"
	"log"

	"strings"

	"github.com/dave/patsy/vos"
	"github.com/dave/piocov"
	"github.com/dave/piocov/runner"
	"github.com/dave/piocov/shared"
)

func main() {

	env := vos.Os()

	wd, err := env.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	cfg, err := shared.LoadConfig(wd)
	if err != nil {
		log.Fatal(err)
	}

	envFlag := flag.String("e", cfg.Environment, "PlatformIO environment to test")
	outputFlag := flag.String("o", cfg.Output, "Override coverage output directory")
	titleFlag := flag.String("title", cfg.Title, "HTML report title")
	minFlag := flag.Float64("min", cfg.Min, "Minimum lines coverage percentage. 0 disables enforcement.")
	verboseFlag := flag.Bool("v", false, "Verbose output")
	argsFlag := new(argsValue)
	flag.Var(argsFlag, "t", "Argument to pass to the 'pio test' command. Can be used more than once.")

	flag.Parse()

	setup := &shared.Setup{
		Env:      env,
		Verbose:  *verboseFlag,
		TestEnv:  *envFlag,
		Title:    *titleFlag,
		Output:   *outputFlag,
		Min:      *minFlag,
		TestArgs: argsFlag.args,
		Pio:      cfg.Pio,
		Lcov:     cfg.Lcov,
		Genhtml:  cfg.Genhtml,
	}
	if err := setup.Parse(flag.Args()); err != nil {
		log.Fatal(err)
	}

	if err := piocov.Run(setup, runner.New(env)); err != nil {
		log.Fatal(err)
	}

}

type argsValue struct {
	args []string
}

var _ flag.Value = (*argsValue)(nil)

func (v *argsValue) String() string {
	if v == nil {
		return ""
	}
	return strings.Join(v.args, " ")
}
func (v *argsValue) Set(s string) error {
	v.args = append(v.args, s)
	return nil
}
