package main

import (
	"blueclova/share-api/db"
	"blueclova/share-api/internal/service"
	"blueclova/share-api/internal/viewer"
	"blueclova/share-api/pkg/qr"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/viper"
)

// runUpload drives one complete share attempt from the command line:
// upload the file through the broker, save the record, print the access
// password and viewer link, and write the QR code image next to the file.
func runUpload(p string) error {
	f, err := os.Open(p)
	if err != nil {
		return fmt.Errorf("failed to open file, %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat file, %w", err)
	}

	mime, err := mimetype.DetectFile(p)
	if err != nil {
		return fmt.Errorf("failed to detect file type, %w", err)
	}

	if !strings.HasPrefix(mime.String(), "video/") {
		return fmt.Errorf("only video files can be uploaded, %s looks like %s", filepath.Base(p), mime.String())
	}

	var store service.RecordStore
	if s, err := db.New(); err != nil {
		fmt.Println("[WARNING]: Record store unavailable, continuing without persistence. " + err.Error())
	} else {
		store = s
	}

	share := service.NewShare(
		service.NewUploader(),
		store,
		viewer.New(viper.GetString("viewer.base_url")),
	)

	// Ctrl+C aborts the in-flight transfer; no record is written for an
	// aborted attempt.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := share.Do(ctx, service.UploadInput{
		Name:     filepath.Base(p),
		Size:     stat.Size(),
		MimeType: mime.String(),
		Body:     f,
	}, func(progress int) {
		fmt.Printf("\rUploading... %3d%%", progress)
	})
	fmt.Println()

	if err != nil {
		return err
	}

	fmt.Println("Video ID:  " + res.VideoID)
	fmt.Println("Password:  " + res.Password)

	if res.Degraded {
		fmt.Println("[WARNING]: " + res.Warning)
	} else {
		fmt.Println("Record ID: " + res.RecordID)
	}

	fmt.Println("Viewer:    " + res.ViewerURL)

	id := res.RecordID
	if id == "" {
		id = res.VideoID
	}

	qrPath, err := qr.WriteFile(res.ViewerURL, id, filepath.Dir(p))
	if err != nil {
		fmt.Println("[WARNING]: Could not write the QR code image. " + err.Error())
		return nil
	}

	fmt.Println("QR code:   " + qrPath)

	return nil
}
