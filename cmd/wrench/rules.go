package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/workshopkit/wrench/internal/cli"
	"github.com/workshopkit/wrench/internal/model"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage classification rules (categories and keywords)",
	}

	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesAddCategoryCmd())
	cmd.AddCommand(rulesAddKeywordCmd())
	cmd.AddCommand(rulesDeactivateCmd())
	cmd.AddCommand(rulesSeedCmd())

	return cmd
}

func rulesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <parts|labor>",
		Short: "List active categories and their keywords",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dim, err := model.ParseDimension(args[0])
			if err != nil {
				return err
			}

			store, err := openStorage()
			if err != nil {
				return err
			}
			defer store.Close()

			categories, err := store.GetCategories(cmd.Context(), dim)
			if err != nil {
				return err
			}
			if len(categories) == 0 {
				cmd.Println(cli.SubtleStyle.Render(fmt.Sprintf("No %s categories; run 'wrench rules seed' to install defaults", dim)))
				return nil
			}

			keywordsByCategory := make(map[int64][]model.Keyword, len(categories))
			for _, cat := range categories {
				keywords, err := store.GetKeywords(cmd.Context(), cat.ID)
				if err != nil {
					return err
				}
				keywordsByCategory[cat.ID] = keywords
			}

			cmd.Print(cli.RenderCategories(categories, keywordsByCategory))
			return nil
		},
	}
	return cmd
}

func rulesAddCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-category <parts|labor> <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dim, err := model.ParseDimension(args[0])
			if err != nil {
				return err
			}
			color, _ := cmd.Flags().GetString("color")

			store, err := openStorage()
			if err != nil {
				return err
			}
			defer store.Close()

			cat, err := store.CreateCategory(cmd.Context(), dim, args[1], color)
			if err != nil {
				return err
			}

			cmd.Println(cli.SuccessStyle.Render(fmt.Sprintf("Created category %q (#%d)", cat.Name, cat.ID)))
			return nil
		},
	}
	cmd.Flags().String("color", "", "display color (hex, e.g. #007bff)")
	return cmd
}

func rulesAddKeywordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-keyword <category-id> <literal>",
		Short: "Attach a keyword to a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var categoryID int64
			if _, err := fmt.Sscanf(args[0], "%d", &categoryID); err != nil {
				return fmt.Errorf("invalid category id %q", args[0])
			}

			weight, _ := cmd.Flags().GetFloat64("weight")
			synonymsFlag, _ := cmd.Flags().GetString("synonyms")
			var synonyms []string
			if synonymsFlag != "" {
				for _, s := range strings.Split(synonymsFlag, ",") {
					if s = strings.TrimSpace(s); s != "" {
						synonyms = append(synonyms, s)
					}
				}
			}

			store, err := openStorage()
			if err != nil {
				return err
			}
			defer store.Close()

			kw, err := store.AddKeyword(cmd.Context(), categoryID, args[1], synonyms, weight)
			if err != nil {
				return err
			}

			cmd.Println(cli.SuccessStyle.Render(fmt.Sprintf("Added keyword %q (#%d)", kw.Literal, kw.ID)))
			return nil
		},
	}
	cmd.Flags().Float64("weight", 1.0, "keyword weight (must be positive)")
	cmd.Flags().String("synonyms", "", "comma-separated synonyms")
	return cmd
}

func rulesDeactivateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deactivate <category|keyword> <id>",
		Short: "Deactivate a category or keyword",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id int64
			if _, err := fmt.Sscanf(args[1], "%d", &id); err != nil {
				return fmt.Errorf("invalid id %q", args[1])
			}

			store, err := openStorage()
			if err != nil {
				return err
			}
			defer store.Close()

			switch args[0] {
			case "category":
				err = store.DeactivateCategory(cmd.Context(), id)
			case "keyword":
				err = store.DeactivateKeyword(cmd.Context(), id)
			default:
				return fmt.Errorf("unknown kind %q (want category or keyword)", args[0])
			}
			if err != nil {
				return err
			}

			cmd.Println(cli.SuccessStyle.Render(fmt.Sprintf("Deactivated %s %d", args[0], id)))
			return nil
		},
	}
	return cmd
}

func rulesSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Install the starter rule vocabulary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStorage()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}
			if err := store.Seed(cmd.Context()); err != nil {
				return err
			}

			cmd.Println(cli.SuccessStyle.Render("Seeded default rules"))
			return nil
		},
	}
}
