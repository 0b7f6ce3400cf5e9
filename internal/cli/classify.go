package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wargaair/water-safety-service/internal/domain"
)

// verdictOutput is the JSON printed by the classify commands.
type verdictOutput struct {
	domain.Verdict
	Diseases []string `json:"diseases,omitempty"`
}

func newSensoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sensory",
		Short: "Score a sensory report (odor, taste, color)",
		Example: `  wqctl sensory --odor fishy --taste normal --color clear
  wqctl sensory --odor putrid --taste metallic --color brown --report`,
		RunE: func(cmd *cobra.Command, args []string) error {
			odor, _ := cmd.Flags().GetString("odor")
			taste, _ := cmd.Flags().GetString("taste")
			color, _ := cmd.Flags().GetString("color")

			in := domain.SensoryInput{Odor: domain.Odor(odor), Taste: domain.Taste(taste), Color: domain.Color(color)}
			if missing := in.Missing(); len(missing) > 0 {
				return fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
			}

			// Sensory scoring needs no reference data.
			v := domain.ClassifySensory(in)
			return printVerdict(cmd, verdictOutput{Verdict: v})
		},
	}
	cmd.Flags().String("odor", "", "Odor: normal, fishy, earthy, putrid, ammonia or other")
	cmd.Flags().String("taste", "", "Taste: normal, bitter, salty, metallic, heavy_metal or other")
	cmd.Flags().String("color", "", "Color: clear, turbid, yellow, brown, green or other")
	cmd.Flags().Bool("report", false, "Print the formatted report instead of JSON")
	return cmd
}

func newLabCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lab [parameter=value ...]",
		Short: "Score laboratory measurements against the parameter standards",
		Example: `  wqctl lab ph=7.2 turbidity=12 "total coliform=3" --diseases
  wqctl lab --file result.json --report`,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			in, err := labInput(cmd, file, args)
			if err != nil {
				return err
			}

			svc, closeRefs, err := newService(cmd)
			if err != nil {
				return err
			}
			defer closeRefs() //nolint:errcheck // read-only

			ctx := commandContext(cmd)
			v, err := svc.ClassifyLab(ctx, in)
			if err != nil {
				return err
			}

			out := verdictOutput{Verdict: v}
			if withDiseases, _ := cmd.Flags().GetBool("diseases"); withDiseases {
				out.Diseases = svc.PredictDiseases(ctx, in)
			}
			return printVerdict(cmd, out)
		},
	}
	cmd.Flags().String("file", "", "Read measurements from a JSON object file (- for stdin)")
	cmd.Flags().Bool("diseases", false, "Include candidate waterborne diseases")
	cmd.Flags().Bool("report", false, "Print the formatted report instead of JSON")
	return cmd
}

// labInput builds measurements from --file or from name=value arguments.
// Argument values stay strings; the classifier coerces them.
func labInput(cmd *cobra.Command, file string, args []string) (domain.LabInput, error) {
	in := domain.LabInput{}

	if file != "" {
		var r io.Reader = cmd.InOrStdin()
		if file != "-" {
			f, err := os.Open(file)
			if err != nil {
				return nil, fmt.Errorf("open measurements: %w", err)
			}
			defer f.Close()
			r = f
		}
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := dec.Decode(&in); err != nil {
			return nil, fmt.Errorf("decode measurements: %w", err)
		}
	}

	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid measurement %q: want parameter=value", arg)
		}
		in[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}

	if len(in) == 0 {
		return nil, fmt.Errorf("no measurements given")
	}
	return in, nil
}

func printVerdict(cmd *cobra.Command, out verdictOutput) error {
	w := cmd.OutOrStdout()
	if report, _ := cmd.Flags().GetBool("report"); report {
		fmt.Fprint(w, domain.FormatReport(out.Verdict))
		if len(out.Diseases) > 0 {
			fmt.Fprintln(w, "\nPOSSIBLE DISEASES:")
			for _, d := range out.Diseases {
				fmt.Fprintf(w, "- %s\n", d)
			}
		}
		return nil
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
