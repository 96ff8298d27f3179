package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vorteil/raw2vhd/pkg/elog"
	"github.com/vorteil/raw2vhd/pkg/vdisk"
)

var (
	flagDebug   bool
	flagVerbose bool
	flagJSON    bool
)

var logger elog.View

func init() {
	log := &elog.CLI{}
	logrus.SetFormatter(log)
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(logrus.InfoLevel)
	logger = log

	addLogFlags(rootCmd.PersistentFlags())
}

func addLogFlags(f *pflag.FlagSet) {
	f.BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose output")
	f.BoolVar(&flagDebug, "debug", false, "enable debug output")
	f.BoolVar(&flagJSON, "json", false, "enable json output")
}

var rootCmd = &cobra.Command{
	Use:   "raw2vhd RAW VHD",
	Short: "Convert a RAW image to a fixed-size VHD image suitable for Azure",
	Long: `Convert a RAW disk image to an Azure-compatible VHD image. Fixed size VHDs
are generated, since Azure only supports fixed-size images.

Many tools generate VHD files that fail to import because of wrong metadata.
Azure only accepts VHDs declaring 'win ' as their creator application, and
whose virtual disk size is aligned to an even 1 MB boundary. Misaligned RAW
images are rejected rather than padded; resize them first.

RAW is the path to the source image; VHD is the path the converted image
will be written to, replacing any existing file.`,
	Args: cobra.ExactArgs(2),
	PreRun: func(cmd *cobra.Command, args []string) {
		if flagDebug {
			logrus.SetLevel(logrus.TraceLevel)
		} else if flagVerbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
		elog.IsJSON = flagJSON
	},
	Run: func(cmd *cobra.Command, args []string) {
		err := vdisk.Convert(&vdisk.ConvertArgs{
			RawPath: args[0],
			VHDPath: args[1],
			Logger:  logger,
		})
		if err != nil {
			logger.Errorf(err.Error())
			os.Exit(1)
		}
	},
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
