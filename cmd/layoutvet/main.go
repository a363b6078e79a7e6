package main

import (
	"os"

	"github.com/spf13/pflag"

	"github.com/interop-lab/managed-go-bridge/pkg/layout"
	"github.com/interop-lab/managed-go-bridge/pkg/util"
)

func main() {
	manifestPath := pflag.String("manifest", "layout.toml", "path to the layout manifest")
	pflag.Parse()

	manifest, err := layout.Load(*manifestPath)
	if err != nil {
		util.Logger.Errorf("loading manifest: %v", err)
		os.Exit(2)
	}

	violations := manifest.Validate()
	for _, v := range violations {
		util.Logger.Errorf("layout violation: %s", v)
	}
	if len(violations) > 0 {
		os.Exit(1)
	}
	util.Logger.Infof("%d types checked, no layout violations", len(manifest.Types))
}
