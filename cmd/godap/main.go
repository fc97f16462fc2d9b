// Command godap inspects remote DAP datasets: print descriptors and
// attributes, look up variables, and dump datasets as JSON.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	godap "github.com/marram/godap"
	"github.com/marram/godap/catalog"
	"github.com/marram/godap/codec"
	"github.com/marram/godap/model"
)

var (
	flagCatalog string
	flagTimeout time.Duration
	flagVerbose bool

	cat *catalog.Catalog
)

func main() {
	root := &cobra.Command{
		Use:           "godap",
		Short:         "Inspect remote DAP datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flagVerbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
			if flagCatalog == "" {
				return nil
			}
			var err error
			cat, err = catalog.Load(flagCatalog)
			return err
		},
	}
	root.PersistentFlags().StringVar(&flagCatalog, "catalog", "", "path to a YAML endpoint catalog")
	root.PersistentFlags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "per-request timeout")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log fetches")

	root.AddCommand(ddsCmd(), dasCmd(), getCmd(), dumpCmd())

	if err := root.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func open(ctx context.Context, ref string) (*model.Dataset, error) {
	return godap.OpenURL(ctx, cat.Resolve(ref), clientOptions()...)
}

func clientOptions() []godap.Option {
	opts := []godap.Option{godap.WithTimeout(flagTimeout)}
	if cat != nil {
		if cat.Timeout > 0 {
			opts = append(opts, godap.WithTimeout(cat.Timeout))
		}
		if cat.UserAgent != "" {
			opts = append(opts, godap.WithUserAgent(cat.UserAgent))
		}
	}
	return opts
}

func ddsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dds <dataset>",
		Short: "Print the dataset descriptor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printTree(ds.Root, 0)
			return nil
		},
	}
}

func dasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "das <dataset>",
		Short: "Print dataset attributes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ds.Walk(func(n *model.Node) bool {
				if len(n.Attrs) > 0 {
					path := n.Path()
					if path == "" {
						path = n.Name
					}
					fmt.Println(path)
					for _, k := range n.Attrs.Keys() {
						fmt.Printf("  %s = %v\n", k, n.Attrs[k])
					}
				}
				return true
			})
			return nil
		},
	}
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <dataset> <path>",
		Short: "Describe one variable by dotted path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			n, err := ds.Get(args[1])
			if err != nil {
				var pe *godap.PathError
				if errors.As(err, &pe) {
					return fmt.Errorf("no such variable: %s", pe.Path)
				}
				return err
			}
			describe(n)
			return nil
		},
	}
}

func dumpCmd() *cobra.Command {
	var withData bool
	cmd := &cobra.Command{
		Use:   "dump <dataset>",
		Short: "Dump a dataset as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ref := cat.Resolve(args[0])
			var (
				ds  *model.Dataset
				err error
			)
			if withData {
				opts := append(clientOptions(), godap.WithMetadata(true))
				ds, err = godap.OpenDods(ctx, ref, opts...)
			} else {
				ds, err = godap.OpenURL(ctx, ref, clientOptions()...)
			}
			if err != nil {
				return err
			}
			out, err := codec.MarshalDataset(ds)
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().BoolVar(&withData, "data", false, "fetch and include variable data")
	return cmd
}

func printTree(n *model.Node, depth int) {
	ind := strings.Repeat("  ", depth)
	switch n.Kind {
	case model.KindVar:
		fmt.Printf("%s%s %s %v\n", ind, n.Type, n.Name, n.Shape)
	default:
		fmt.Printf("%s%s %s\n", ind, n.Kind, n.Name)
	}
	for _, c := range n.Children() {
		printTree(c, depth+1)
	}
}

func describe(n *model.Node) {
	fmt.Printf("name:  %s\n", n.Name)
	fmt.Printf("kind:  %s\n", n.Kind)
	if n.Kind == model.KindVar {
		fmt.Printf("type:  %s\n", n.Type)
		if len(n.Shape) > 0 {
			fmt.Printf("shape: %v\n", n.Shape)
		}
	}
	for _, k := range n.Attrs.Keys() {
		fmt.Printf("attr:  %s = %v\n", k, n.Attrs[k])
	}
}
