package logging

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// FileWriter appends log lines to a file and rotates it by size and age.
// Rotated files are gzip-compressed and only the newest maxFiles are kept.
type FileWriter struct {
	mu           sync.Mutex
	path         string
	maxSize      int64
	maxFiles     int
	maxAge       time.Duration
	file         *os.File
	size         int64
	lastRotation time.Time
	compress     sync.WaitGroup
}

// NewFileWriter opens path for appending, creating its directory.
func NewFileWriter(path string, maxSizeMB, maxFiles int) (*FileWriter, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("log path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	if maxFiles <= 0 {
		maxFiles = 5
	}
	fw := &FileWriter{
		path:         path,
		maxSize:      int64(maxSizeMB) * 1024 * 1024,
		maxFiles:     maxFiles,
		maxAge:       24 * time.Hour,
		lastRotation: time.Now(),
	}
	if err := fw.open(); err != nil {
		return nil, err
	}
	return fw, nil
}

// Path returns the active log file path.
func (fw *FileWriter) Path() string { return fw.path }

func (fw *FileWriter) open() error {
	f, err := os.OpenFile(fw.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat log file: %w", err)
	}
	fw.file = f
	fw.size = info.Size()
	return nil
}

func (fw *FileWriter) Write(p []byte) (int, error) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.file == nil {
		return 0, os.ErrClosed
	}
	if fw.size > 0 && (fw.size+int64(len(p)) > fw.maxSize || time.Since(fw.lastRotation) > fw.maxAge) {
		if err := fw.rotate(); err != nil {
			return 0, err
		}
	}
	n, err := fw.file.Write(p)
	fw.size += int64(n)
	return n, err
}

// rotate must be called with fw.mu held.
func (fw *FileWriter) rotate() error {
	if err := fw.file.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	rotated := fmt.Sprintf("%s.%s", fw.path, time.Now().Format("20060102-150405.000"))
	if err := os.Rename(fw.path, rotated); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("rename log file: %w", err)
	}

	fw.compress.Add(1)
	go func() {
		defer fw.compress.Done()
		compressFile(rotated)
		prune(fw.path, fw.maxFiles)
	}()

	fw.lastRotation = time.Now()
	return fw.open()
}

func compressFile(path string) {
	in, err := os.Open(path)
	if err != nil {
		return
	}
	defer in.Close()

	out, err := os.Create(path + ".gz")
	if err != nil {
		return
	}
	gz := gzip.NewWriter(out)
	_, copyErr := io.Copy(gz, in)
	closeErr := gz.Close()
	out.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(path + ".gz")
		return
	}
	os.Remove(path)
}

// prune keeps the newest maxFiles rotated files next to base.
func prune(base string, maxFiles int) {
	matches, err := filepath.Glob(base + ".*")
	if err != nil || len(matches) <= maxFiles {
		return
	}
	modTime := make(map[string]time.Time, len(matches))
	for _, path := range matches {
		if info, err := os.Stat(path); err == nil {
			modTime[path] = info.ModTime()
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return modTime[matches[i]].Before(modTime[matches[j]])
	})
	for _, path := range matches[:len(matches)-maxFiles] {
		os.Remove(path)
	}
}

// Close waits for pending compression and closes the active file.
func (fw *FileWriter) Close() error {
	fw.mu.Lock()
	f := fw.file
	fw.file = nil
	fw.mu.Unlock()

	fw.compress.Wait()
	if f != nil {
		return f.Close()
	}
	return nil
}

// ReadRecent returns up to n of the newest entries in the log file at path,
// oldest first. Lines that are not JSON entries are skipped.
func ReadRecent(path string, n int) ([]Entry, error) {
	if n <= 0 {
		return []Entry{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, err
	}
	defer f.Close()

	ring := make([]Entry, 0, n)
	next := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if len(ring) < n {
			ring = append(ring, entry)
			continue
		}
		ring[next] = entry
		next = (next + 1) % n
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return append(ring[next:], ring[:next]...), nil
}
