package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/transync/foundation/core/error"
	"github.com/msto63/transync/pkg/lookup"
)

var (
	lookupLang    string
	lookupContext string
	lookupStrict  bool
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <key>",
	Short: "Resolve a key the way the runtime library does",
	Long: `Resolves a key for a language with the same fallback the runtime
library applies: the exact language, then its base language, in the given
context and then in each parent context, finally the key itself.

Examples:
  transync lookup "Open file" --lang de-AT
  transync lookup Save --context Menu/File --lang fr --strict`,
	Args: usageArgs(cobra.ExactArgs(1)),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)

	lookupCmd.Flags().StringVarP(&lookupLang, "lang", "l", "", "target language (default: first of translations.languages)")
	lookupCmd.Flags().StringVarP(&lookupContext, "context", "c", "", "context path, e.g. Menu/File")
	lookupCmd.Flags().BoolVar(&lookupStrict, "strict", false, "fail when no translation exists")
}

func runLookup(cmd *cobra.Command, args []string) error {
	s := current
	key := args[0]

	lang := lookupLang
	if lang == "" && len(s.cfg.Translations.Languages) > 0 {
		lang = s.cfg.Translations.Languages[0]
	}
	if lang == "" {
		return mdwerror.New("no language given, use --lang or translations.languages").
			WithCode(mdwerror.CodeInvalidInput)
	}

	if err := requireFile(s.cfg.Translations.File); err != nil {
		return err
	}
	table, err := lookup.LoadTable(s.cfg.Translations.File)
	if err != nil {
		return err
	}

	tr := lookup.NewTranslator(table, lang, s.logger)
	text, ok := tr.Lookup(lookupContext, key)
	if !ok {
		if lookupStrict {
			return mdwerror.Newf("no translation of %q for %s", key, lang).
				WithCode(mdwerror.CodeNotFound).
				WithDetail("context", lookupContext)
		}
		text = tr.Translate(lookupContext, key)
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
