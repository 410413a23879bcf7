// unet-workbench provisions the CrowdAI vehicle detection dataset and manages the
// surrounding training workspace: it downloads and extracts the raw data, launches the
// external derived-data generator and TensorBoard, verifies the generated labels,
// reports the workspace state and tears artifacts down.
//
// Usage: unet-workbench [flags] <command>
//
// Commands: download, generate, verify, status, fresh, clean, cleaner, tensorboard.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path"
	"sort"
	"strings"

	"github.com/DSLituiev/unet-workbench/crowdai"
	"github.com/DSLituiev/unet-workbench/extern"
	"github.com/DSLituiev/unet-workbench/pkg/support/fsutil"
	"k8s.io/klog/v2"
)

var (
	flagBase = flag.String("base", ".", "Workspace base directory. Every dataset, "+
		"generated and training artifact lives under it.")
	flagConfig = flag.String("config", "", "Optional YAML file overriding workspace "+
		"settings: URLs, checksums and the external tool names.")
	flagPython = flag.String("python", "", "Python interpreter used to run the generator "+
		"script. Overrides the config file.")
	flagGenerator = flag.String("generator", "", "Generator script producing the resized "+
		"images, masks and resized labels. Overrides the config file.")
	flagTensorBoard = flag.String("tensorboard", "", "TensorBoard binary for the "+
		"monitoring command. Overrides the config file.")
)

// commands maps each subcommand to its action. Commands returning an error from an
// external program make the process exit with that program's own exit code.
var commands = map[string]struct {
	help string
	run  func(w *crowdai.Workspace) error
}{
	"download": {
		"download and extract the image archive and the labels CSV; re-runs skip whatever is already in place",
		func(w *crowdai.Workspace) error { return w.Provision() },
	},
	"generate": {
		"run the external generator script over the provisioned dataset",
		func(w *crowdai.Workspace) error { return extern.Generate(w) },
	},
	"verify": {
		"cross-check the generated resized labels against the original annotations",
		verify,
	},
	"status": {
		"report which workspace artifacts exist and how large they are",
		status,
	},
	"fresh": {
		"remove the training state (logdir and model checkpoints)",
		func(w *crowdai.Workspace) error { return w.Fresh() },
	},
	"clean": {
		"remove the generated artifacts (resized images, masks, resized labels)",
		func(w *crowdai.Workspace) error { return w.Clean() },
	},
	"cleaner": {
		"clean, then also remove the downloads and the extracted images",
		func(w *crowdai.Workspace) error { return w.CleanRaw() },
	},
	"tensorboard": {
		"launch TensorBoard over the training log directory",
		func(w *crowdai.Workspace) error { return extern.TensorBoard(w) },
	},
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <command>\n\nCommands:\n", os.Args[0])
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(flag.CommandLine.Output(), "  %-12s %s\n", name, commands[name].help)
	}
	fmt.Fprintf(flag.CommandLine.Output(), "\nFlags:\n")
	flag.PrintDefaults()
}

func main() {
	klog.InitFlags(nil)
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		klog.Errorf("Missing command. See '%s -help'.", os.Args[0])
		os.Exit(1)
	}
	if len(args) > 1 {
		klog.Errorf("Too many arguments. See '%s -help'.", os.Args[0])
		os.Exit(1)
	}
	cmd, found := commands[args[0]]
	if !found {
		klog.Errorf("Unknown command %q. See '%s -help'.", args[0], os.Args[0])
		os.Exit(1)
	}

	w, err := newWorkspace()
	if err != nil {
		klog.Fatalf("Failed with error: %+v", err)
	}
	if err = cmd.run(w); err != nil {
		if code := extern.ExitCode(err); code > 0 {
			klog.Errorf("Failed with error: %+v", err)
			os.Exit(code)
		}
		klog.Fatalf("Failed with error: %+v", err)
	}
}

// newWorkspace builds the workspace configuration: defaults, then the config file (if
// any), then the command-line flag overrides.
func newWorkspace() (*crowdai.Workspace, error) {
	w := crowdai.New(*flagBase)
	if *flagConfig != "" {
		if err := w.LoadConfig(*flagConfig); err != nil {
			return nil, err
		}
	}
	if *flagPython != "" {
		w.Python = *flagPython
	}
	if *flagGenerator != "" {
		w.Generator = *flagGenerator
	}
	if *flagTensorBoard != "" {
		w.TensorBoard = *flagTensorBoard
	}
	return w, w.Validate()
}

func verify(w *crowdai.Workspace) error {
	if err := w.VerifyGenerated(); err != nil {
		return err
	}
	fmt.Printf("Generated labels in %s are consistent with %s.\n",
		w.ResizedLabelsPath(), w.LabelsPath())
	return nil
}

// missingTools reports configured external programs not found, as a hint next to the
// artifact status. Only informational: the workflow doesn't pre-validate them. The
// generator is a script, so it resolves against the workspace base directory, the
// working directory it later runs in.
func missingTools(w *crowdai.Workspace) []string {
	var missing []string
	generator := w.Generator
	if !path.IsAbs(generator) {
		generator = path.Join(w.BaseDir, generator)
	}
	if !fsutil.MustFileExists(generator) {
		missing = append(missing, w.Generator)
	}
	for _, tool := range []string{w.Python, w.TensorBoard} {
		if strings.ContainsRune(tool, os.PathSeparator) {
			if !fsutil.MustFileExists(tool) {
				missing = append(missing, tool)
			}
			continue
		}
		if _, err := exec.LookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	return missing
}
