package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/go-telegram/bot"
)

// downloadFile downloads a Telegram file and sniffs its media type so the
// upload boundary sees the same contract as the HTTP surface.
func downloadFile(ctx context.Context, b *bot.Bot, fileID string) (data []byte, name, contentType string, err error) {
	file, err := b.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, "", "", fmt.Errorf("get file: %w", err)
	}

	fileURL := b.FileDownloadLink(file)

	req, err := http.NewRequestWithContext(ctx, "GET", fileURL, nil)
	if err != nil {
		return nil, "", "", fmt.Errorf("create download request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", "", fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", "", fmt.Errorf("read file data: %w", err)
	}

	return data, path.Base(file.FilePath), http.DetectContentType(data), nil
}
