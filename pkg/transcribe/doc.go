// ABOUTME: Transcription service client package
// ABOUTME: Builds the multipart upload and extracts text from the response
// Package transcribe submits canonical clips to a transcription service.
//
// The request is a single multipart/form-data POST to {base}/transcribe with
// one part named "file". The file name always ends in .wav.
//
// Example:
//
//	client := transcribe.NewClient(transcribe.Config{BaseURL: "http://localhost:8000"})
//	resp, err := client.Transcribe(ctx, result.Clip)
//	fmt.Println(resp.Text())
package transcribe
