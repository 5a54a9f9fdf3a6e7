package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"silicon.com/app/internal/form"
	"silicon.com/app/internal/modules/accessories"
	"silicon.com/app/internal/modules/products"
	"silicon.com/app/internal/storage"
	"silicon.com/app/internal/wizard"
)

// imagePart is the color part that takes a file path instead of a value.
const imagePart = "image"

// field describes one bound field of a step's group.
type field struct {
	Name  string
	List  bool
	Parts []string
	Value string // scalars only
	Len   int    // lists only
}

func describe(f wizard.Flow, step int) ([]field, error) {
	var out []field
	err := f.Edit(step, func(g *form.Group) error {
		for _, name := range g.Fields() {
			fd := field{Name: name, List: g.IsList(name)}
			var err error
			if fd.List {
				if fd.Parts, err = g.Parts(name); err != nil {
					return err
				}
				if fd.Len, err = g.ListLen(name); err != nil {
					return err
				}
			} else if fd.Value, err = g.Field(name); err != nil {
				return err
			}
			out = append(out, fd)
		}
		return nil
	})
	return out, err
}

// answers holds what was typed for one step. It survives a failed submit so
// the next prompt starts from the previous input.
type answers struct {
	Scalars map[string]string
	Lists   map[string][]map[string]string // item -> part -> value; "" for plain lists
}

func newAnswers() *answers {
	return &answers{Scalars: map[string]string{}, Lists: map[string][]map[string]string{}}
}

// apply writes the answers into the step's group and returns the image files
// to stage, by color index. Every failing field is reported.
func apply(f wizard.Flow, step int, ans *answers) (map[int]string, error) {
	images := map[int]string{}
	var errs []error
	err := f.Edit(step, func(g *form.Group) error {
		names := make([]string, 0, len(ans.Scalars))
		for name := range ans.Scalars {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if err := g.SetField(name, ans.Scalars[name]); err != nil {
				errs = append(errs, err)
			}
		}

		for name, items := range ans.Lists {
			n, err := g.ListLen(name)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			for ; n < len(items); n++ {
				if err := g.AddListItem(name); err != nil {
					return err
				}
			}
			for ; n > len(items); n-- {
				if err := g.RemoveListItem(name, n-1); err != nil {
					errs = append(errs, err)
					break
				}
			}
			for i, parts := range items {
				for part, value := range parts {
					if part == imagePart {
						if strings.TrimSpace(value) != "" {
							images[i] = strings.TrimSpace(value)
						}
						continue
					}
					if err := g.SetListItem(name, i, part, value); err != nil {
						errs = append(errs, err)
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return images, errors.Join(errs...)
}

// stager is the product wizard's image upload.
type stager interface {
	StageImage(ctx context.Context, index int, r io.Reader, in storage.PutInput) (storage.PutResult, error)
}

func stageImages(ctx context.Context, f wizard.Flow, images map[int]string) error {
	s, ok := f.(stager)
	if !ok || len(images) == 0 {
		return nil
	}
	for i, path := range images {
		if err := stageFile(ctx, s, i, path); err != nil {
			return fmt.Errorf("image %d: %w", i+1, err)
		}
	}
	return nil
}

func stageFile(ctx context.Context, s stager, index int, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	st, err := file.Stat()
	if err != nil {
		return err
	}
	_, err = s.StageImage(ctx, index, file, storage.PutInput{
		Filename:    filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Size:        st.Size(),
	})
	return err
}

// prompt asks for every field of the step, prefilled from ans.
func prompt(title string, fields []field, ans *answers) error {
	var inputs []huh.Field
	counts := map[string]*string{}
	scalars := map[string]*string{}
	for _, fd := range fields {
		if fd.List {
			n := len(ans.Lists[fd.Name])
			if n == 0 {
				n = max(fd.Len, 1)
			}
			v := strconv.Itoa(n)
			counts[fd.Name] = &v
			inputs = append(inputs, huh.NewInput().Title("How many "+fd.Name+"?").Value(&v).Validate(positiveInt))
			continue
		}
		v, ok := ans.Scalars[fd.Name]
		if !ok {
			v = fd.Value
		}
		scalars[fd.Name] = &v
		inputs = append(inputs, huh.NewInput().Title(fd.Name).Value(&v))
	}
	if err := huh.NewForm(huh.NewGroup(inputs...).Title(title)).Run(); err != nil {
		return err
	}
	for name, v := range scalars {
		ans.Scalars[name] = *v
	}

	var groups []*huh.Group
	values := map[string][]map[string]*string{}
	for _, fd := range fields {
		if !fd.List {
			continue
		}
		n, _ := strconv.Atoi(*counts[fd.Name])
		prev := ans.Lists[fd.Name]
		parts := fd.Parts
		if len(parts) == 0 {
			parts = []string{""}
		}
		items := make([]map[string]*string, n)
		for i := 0; i < n; i++ {
			var row []huh.Field
			items[i] = map[string]*string{}
			for _, part := range parts {
				v := ""
				if i < len(prev) {
					v = prev[i][part]
				}
				items[i][part] = &v
				label := fmt.Sprintf("%s %d", fd.Name, i+1)
				if part != "" {
					label += " " + part
				}
				in := huh.NewInput().Title(label).Value(&v)
				if part == imagePart {
					in = in.Description("path to an image file; blank keeps the uploaded one")
				}
				row = append(row, in)
			}
			groups = append(groups, huh.NewGroup(row...))
		}
		values[fd.Name] = items
	}
	if len(groups) > 0 {
		if err := huh.NewForm(groups...).Run(); err != nil {
			return err
		}
	}
	for name, items := range values {
		out := make([]map[string]string, len(items))
		for i, parts := range items {
			out[i] = map[string]string{}
			for part, v := range parts {
				out[i][part] = *v
			}
		}
		ans.Lists[name] = out
	}
	return nil
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return errors.New("enter a number of at least 1")
	}
	return nil
}

type afterFailure string

const (
	retry  afterFailure = "retry"
	goBack afterFailure = "back"
	abort  afterFailure = "abort"
)

// runWizard walks the flow to completion. Closing it on abort removes any
// staged images.
func (a *app) runWizard(ctx context.Context, w io.Writer, f wizard.Flow) error {
	ctrl := f.Controller()
	all := map[int]*answers{}

	for !ctrl.Completed() {
		step := ctrl.Active()
		info := ctrl.ActiveStep()
		ans, ok := all[step]
		if !ok {
			ans = newAnswers()
			all[step] = ans
		}

		fields, err := describe(f, step)
		if err != nil {
			return err
		}
		title := fmt.Sprintf("%s: step %d of %d (%s)", f.Kind(), step+1, ctrl.Len(), info.Name)
		if err := prompt(title, fields, ans); err != nil {
			ctrl.Close()
			return err
		}

		images, err := apply(f, step, ans)
		if err == nil {
			err = stageImages(ctx, f, images)
		}
		if err == nil {
			err = ctrl.Submit(ctx)
		}
		if err == nil {
			a.log.Info("wizard_step_submitted", zap.String("kind", f.Kind()), zap.String("step", info.Name))
			fmt.Fprintf(w, "✓ %s saved\n", info.Name)
			continue
		}

		a.log.Warn("wizard_step_failed", zap.String("kind", f.Kind()), zap.String("step", info.Name), zap.Error(err))
		fmt.Fprintln(w, describeErr(err))
		next, perr := askAfterFailure(step > 0)
		if perr != nil {
			ctrl.Close()
			return perr
		}
		switch next {
		case goBack:
			if err := ctrl.Retreat(); err != nil {
				return err
			}
		case abort:
			ctrl.Close()
			return fmt.Errorf("%s wizard aborted", f.Kind())
		}
	}

	fmt.Fprintln(w, "Done.")
	for k, v := range ctrl.Tokens() {
		fmt.Fprintf(w, "  %s: %s\n", k, v)
	}
	return nil
}

func askAfterFailure(canGoBack bool) (afterFailure, error) {
	opts := []huh.Option[afterFailure]{huh.NewOption("Edit and retry", retry)}
	if canGoBack {
		opts = append(opts, huh.NewOption("Go back a step", goBack))
	}
	opts = append(opts, huh.NewOption("Abort", abort))

	choice := retry
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[afterFailure]().Title("The step was not saved.").Options(opts...).Value(&choice),
		),
	).Run()
	return choice, err
}

func productCmd(a *app) *cobra.Command {
	var stagingDir string
	cmd := &cobra.Command{Use: "product", Short: "Product listings"}
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a product: basic info, model, colors, feature icons",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := a.authed()
			if err != nil {
				return err
			}
			dir := stagingDir
			if dir == "" {
				dir = filepath.Join(configDir(), "staging")
			}
			f := products.NewWizard(client, storage.NewLocal(dir, ""), a.log)
			return a.runWizard(cmd.Context(), cmd.OutOrStdout(), f)
		},
	}
	create.Flags().StringVar(&stagingDir, "staging-dir", "", "where color images wait until uploaded")
	cmd.AddCommand(create)
	return cmd
}

func accessoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "accessory", Short: "Accessory listings"}
	cmd.AddCommand(&cobra.Command{
		Use:   "create",
		Short: "Create an accessory: details, then feature pairs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := a.authed()
			if err != nil {
				return err
			}
			return a.runWizard(cmd.Context(), cmd.OutOrStdout(), accessories.NewWizard(client))
		},
	})
	return cmd
}
