package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/cv-sync/internal/importer"
	"github.com/spigell/cv-sync/internal/model"
	"github.com/spigell/cv-sync/internal/storage"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import a resume from extractor JSON output",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		importResume(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringP("user-id", "u", "", "owner of the imported resume")
	importCmd.Flags().StringP("title", "t", "", "title of the imported resume (overrides the document)")
	importCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation before saving")
}

func importResume(cmd *cobra.Command, path string) {
	ctx := context.Background()

	logger := mustLogger()
	defer logger.Sync() //nolint:errcheck

	config := mustConfig(logger)

	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("reading import file", zap.Error(err), zap.String("filename", path))
	}

	imp, err := importer.New()
	if err != nil {
		logger.Fatal("loading import schema", zap.Error(err))
	}

	userID, _ := cmd.Flags().GetString("user-id")
	title, _ := cmd.Flags().GetString("title")

	resume, err := imp.Parse(raw, importer.Options{UserID: userID, Title: title})
	if err != nil {
		var validation *importer.ValidationError
		if errors.As(err, &validation) {
			logger.Fatal("import document is invalid", zap.Strings("problems", validation.Problems))
		}
		logger.Fatal("parsing import document", zap.Error(err))
	}

	logger.Info("parsed resume", summaryFields(resume)...)

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		confirm := promptui.Prompt{Label: "Save this resume", IsConfirm: true}
		if _, err := confirm.Run(); err != nil {
			logger.Info("exiting", zap.String("reason", "import not confirmed"))
			return
		}
	}

	d, err := buildDeps(ctx, config, logger, false)
	if err != nil {
		logger.Fatal("initializing dependencies", zap.Error(err))
	}
	defer d.Close()

	result, err := d.resumes.Save(ctx, resume)
	if err != nil {
		logger.Fatal("saving imported resume", zap.Error(err))
	}

	fields := []zap.Field{zap.String("resume_id", result.ResumeID)}
	if failed := result.FailedSections(); len(failed) > 0 {
		fields = append(fields, zap.Strings("failed_sections", failed))
	}
	if result.EmbeddingErr != nil {
		fields = append(fields, zap.NamedError("embedding_error", result.EmbeddingErr))
	}
	logger.Info("resume imported", fields...)
}

func summaryFields(r *model.Resume) []zap.Field {
	return []zap.Field{
		zap.String("title", r.Title),
		zap.String("name", storage.FullName(r.Personal.FirstName, r.Personal.LastName)),
		zap.Int("experience", len(r.Experiences)),
		zap.Int("education", len(r.Educations)),
		zap.Int("skills", len(r.Skills)),
		zap.Int("projects", len(r.Projects)),
		zap.Int("languages", len(r.Languages)),
	}
}
