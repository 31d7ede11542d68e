// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/wellness-api/auth"
	"github.com/danielhkuo/wellness-api/cliparse"
	"github.com/danielhkuo/wellness-api/content"
	"github.com/danielhkuo/wellness-api/instruments"
)

// assessCmd scores an instrument in the terminal and prints the result. Answers given
// as arguments are used as-is; otherwise each item is prompted. Nothing is stored.
func assessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assess [instrument] [answers...]",
		Short: "Take an assessment in the terminal (default aaq2)",
		RunE: func(cmd *cobra.Command, args []string) error {
			code := instruments.CodeAAQ2
			if len(args) > 0 {
				code = args[0]
			}

			var answers []int
			for _, a := range args[min(1, len(args)):] {
				v, err := strconv.Atoi(a)
				if err != nil {
					return fmt.Errorf("answer %q is not a number", a)
				}
				answers = append(answers, v)
			}
			return runAssess(code, answers)
		},
	}
}

func runAssess(code string, answers []int) error {
	reg := instruments.Default()
	inst, ok := reg.Get(code)
	if !ok {
		return fmt.Errorf("%w: %q", instruments.ErrUnknownInstrument, code)
	}

	color.New(color.Bold, color.FgCyan).Println(inst.Name)

	if len(answers) == 0 {
		color.New(color.FgHiBlack).Println(inst.Description)
		fmt.Println()

		var err error
		if answers, err = promptAnswers(inst); err != nil {
			return err
		}
	}

	res, err := reg.Score(code, answers)
	if err != nil {
		return err
	}
	printResult(res)

	if code != instruments.CodeAAQ2 {
		return nil
	}

	sel, err := content.Default().Select(res.Level, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	if err != nil {
		return err
	}
	printSelection(sel)
	return nil
}

// promptAnswers asks every item with the instrument's Likert range as options
func promptAnswers(inst instruments.Instrument) ([]int, error) {
	options := make([]string, 0, inst.Max-inst.Min+1)
	for v := inst.Min; v <= inst.Max; v++ {
		if anchor, ok := inst.Anchors[v]; ok {
			options = append(options, fmt.Sprintf("%d - %s", v, anchor))
		} else {
			options = append(options, strconv.Itoa(v))
		}
	}

	answers := make([]int, len(inst.Items))
	for i, item := range inst.Items {
		var selectedIdx int
		prompt := &survey.Select{
			Message: fmt.Sprintf("%d/%d %s", i+1, len(inst.Items), item),
			Options: options,
		}
		if err := survey.AskOne(prompt, &selectedIdx); err != nil {
			return nil, err
		}
		answers[i] = inst.Min + selectedIdx
	}
	return answers, nil
}

func printResult(res instruments.Result) {
	bold := color.New(color.Bold, color.FgCyan)
	gray := color.New(color.FgHiBlack)

	fmt.Println()
	bold.Printf("Score: %d (%s)\n", res.Score, res.Level)
	for name, v := range res.Subscales {
		gray.Printf("  %s: %d\n", name, v)
	}
	fmt.Println(res.Interpretation)
}

func printSelection(sel content.Selection) {
	gray := color.New(color.FgHiBlack)

	fmt.Println()
	rarityColor(sel.Featured.Rarity).Printf("★ %s [%s]\n", sel.Featured.Title, sel.Featured.Rarity)
	for _, extra := range sel.Extras {
		gray.Printf("  · %s\n", extra.Title)
	}
}

func rarityColor(r content.Rarity) *color.Color {
	switch r {
	case content.Legendary:
		return color.New(color.FgYellow, color.Bold)
	case content.Rare:
		return color.New(color.FgMagenta, color.Bold)
	default:
		return color.New(color.FgGreen)
	}
}

// tokenCmd mints a bearer token signed with the configured secret, for local testing
func tokenCmd() *cobra.Command {
	var (
		subject string
		email   string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development bearer token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := cliparse.Load(cmd.Flags())
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET required")
			}
			if subject == "" {
				return errors.New("--sub is required")
			}

			token, err := auth.NewVerifier(cfg.JWTSecret, cfg.JWTAudience).Issue(subject, email, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "sub", "", "Subject (user ID)")
	cmd.Flags().StringVar(&email, "email", "", "Email claim")
	cmd.Flags().StringVar(&role, "role", "", "app_role claim (e.g. "+auth.RoleHRAdmin+")")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	return cmd
}
