package runner

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DeriveBatchID turns a user-list filename into a batch identifier:
// the basename minus its .txt extension, so lists/users_3.txt owns the
// keys output_users_3, progress_users_3 and errors_users_3.
func DeriveBatchID(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".txt")
}

// ReadUserList reads one user identifier per line, skipping blanks
func ReadUserList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open user list: %w", err)
	}
	defer file.Close()

	var users []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		user := strings.TrimSpace(scanner.Text())
		if user != "" {
			users = append(users, user)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read user list: %w", err)
	}

	return users, nil
}
