package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/transync/internal/engine"
	"github.com/msto63/transync/internal/report"
)

var deployOutput string

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Write a copy of the translation file without comments",
	Long: `Removes every comment from the translation file and writes the result
to the deploy output (default: translations.deploy_output). The translation
file itself is not modified.`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runDeploy,
}

func init() {
	rootCmd.AddCommand(deployCmd)

	deployCmd.Flags().StringVarP(&deployOutput, "output", "o", "", "output file (default: translations.deploy_output)")
}

func runDeploy(cmd *cobra.Command, args []string) error {
	s := current
	started := time.Now()

	output := deployOutput
	if output == "" {
		output = s.cfg.Translations.DeployOutput
	}
	rep := &report.Report{Kind: report.KindDeploy, File: s.cfg.Translations.File}
	err := s.deploy(output, rep)
	return s.finish(cmd, rep, started, err)
}

func (s *session) deploy(output string, rep *report.Report) error {
	if err := requireFile(rep.File); err != nil {
		return err
	}
	e := engine.New(s.logger)
	if err := e.Load(rep.File); err != nil {
		return err
	}
	removed, err := e.DeleteAllComments()
	if err != nil {
		return err
	}
	if err := e.WriteFile(output); err != nil {
		return err
	}
	rep.Deploy = &report.DeployResult{Output: output, CommentsRemoved: removed}
	return nil
}
