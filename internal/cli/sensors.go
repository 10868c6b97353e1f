package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/username/alarm-api/internal/sensor"
)

// sensorsCmd represents the sensors command
var sensorsCmd = &cobra.Command{
	Use:     "sensors",
	Aliases: []string{"sensor"},
	Short:   "Inspect registered sensors",
}

var sensorsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List sensors with their alarm counts",
	RunE:    runSensorsList,
}

func init() {
	sensorsCmd.AddCommand(sensorsListCmd)
}

func runSensorsList(cmd *cobra.Command, args []string) error {
	e, err := bootstrap()
	if err != nil {
		return err
	}
	defer e.close()

	sensors, err := sensor.NewService(e.db).List(cmd.Context(), true)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(sensors) == 0 {
		fmt.Fprintln(out, "No sensors found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ID\tNAME\tLOCATION\tALARMS\tLAST ALARM")
	for _, s := range sensors {
		last := "-"
		if len(s.Alarms) > 0 {
			last = s.Alarms[0].Timestamp.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", s.ID, s.Name, s.Location, len(s.Alarms), last)
	}
	return nil
}
