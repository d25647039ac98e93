package batch

import (
	"fmt"
	"unicode/utf8"

	"github.com/jackzampolin/pdfsift/internal/classify"
	"github.com/jackzampolin/pdfsift/internal/pipeline"
	"github.com/jackzampolin/pdfsift/internal/processor"
)

// normalize flattens a pipeline result into the common report schema.
func normalize(result *processor.Result) DocumentEntry {
	if result.Type == classify.TypeRaster {
		return normalizeRaster(result.Raster)
	}
	return normalizeVector(result.Vector)
}

func normalizeRaster(rep *pipeline.RasterReport) DocumentEntry {
	files := make([]ProcessedFile, 0, len(rep.ProcessedImages))
	for i, path := range rep.ProcessedImages {
		files = append(files, ProcessedFile{
			PageNumber: i + 1,
			FilePath:   path,
			FileType:   "image",
		})
	}
	return DocumentEntry{
		Type:           string(classify.TypeRaster),
		TotalPages:     rep.TotalPages,
		ProcessedFiles: files,
	}
}

func normalizeVector(rep *pipeline.VectorReport) DocumentEntry {
	files := make([]ProcessedFile, 0, len(rep.TextContent))
	for i, text := range rep.TextContent {
		length := utf8.RuneCountInString(text)
		files = append(files, ProcessedFile{
			PageNumber:    i + 1,
			FilePath:      fmt.Sprintf("page_%d_text.txt", i+1),
			FileType:      "text",
			ContentLength: &length,
		})
	}

	entry := DocumentEntry{
		Type:           string(classify.TypeVector),
		TotalPages:     rep.TotalPages,
		ProcessedFiles: files,
	}
	if len(rep.Metadata) > 0 {
		entry.Metadata = rep.Metadata
	}
	return entry
}
