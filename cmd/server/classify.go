package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/campus-access-map/internal/marker"
)

func runClassify(cmd *cobra.Command, args []string) {
	st := marker.Classify(args[0])
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "category: %s\n", st.Category)
	fmt.Fprintf(out, "color:    %s\n", st.Color)
	fmt.Fprintf(out, "class:    %s\n", marker.ClassName(st.Category))
	if st.HasOverlay() {
		fmt.Fprintf(out, "overlay:  %s\n", st.Overlay)
	}
}
