package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// runTest 等同原本 Makefile 的：
//
//	go clean -testcache && go test ./... -cover -count=1 2>&1 | grep -E '^(ok|FAIL)'
func runTest() {
	PrintGreen("running tests")

	// clean 失敗不中斷，頂多吃到舊 cache
	if err := exec.Command("go", "clean", "-testcache").Run(); err != nil {
		PrintRed(err.Error())
	}

	cmd := exec.Command("go", "test", "./...", "-cover", "-count=1")
	filterLines(cmd, func(line string) {
		switch {
		case strings.HasPrefix(line, "ok"):
			PrintGreen(line)
		case strings.HasPrefix(line, "FAIL"):
			PrintRed(line)
		case strings.Contains(line, "build failed") || strings.Contains(line, "setup failed"):
			// 編譯錯誤不以 ok/FAIL 開頭，過濾掉會讓人以為卡住
			PrintRed(line)
		}
	})
}

// runTestAll 跑全部套件並顯示 coverage，不過濾輸出。
func runTestAll() {
	PrintGreen("running tests (all with coverage)")

	cleanCmd := exec.Command("go", "clean", "-testcache")
	cleanCmd.Stdout = os.Stdout
	cleanCmd.Stderr = os.Stderr
	if err := cleanCmd.Run(); err != nil {
		PrintRed(fmt.Sprintf("go clean -testcache failed: %v", err))
		os.Exit(1)
	}

	testCmd := exec.Command("go", "test", "./...", "-cover")
	testCmd.Stdout = os.Stdout
	testCmd.Stderr = os.Stderr
	if err := testCmd.Run(); err != nil {
		PrintRed("\nTests (with coverage) finished with errors\n")
		os.Exit(1)
	}
}

// runTestDetail：verbose 測試，濾掉 "[no test files]" 的雜訊行。
func runTestDetail() {
	PrintGreen("running tests (detail)")

	cleanCmd := exec.Command("go", "clean", "-testcache")
	cleanCmd.Stdout = os.Stdout
	cleanCmd.Stderr = os.Stderr
	if err := cleanCmd.Run(); err != nil {
		PrintRed(fmt.Sprintf("go clean -testcache failed: %v", err))
		os.Exit(1)
	}

	cmd := exec.Command("go", "test", "./...", "-v", "-count=1")
	filterLines(cmd, func(line string) {
		switch {
		case strings.Contains(line, "[no test files]"):
		case strings.HasPrefix(line, "ok"):
			PrintGreen(line)
		case strings.HasPrefix(line, "FAIL"):
			PrintRed(line)
		default:
			fmt.Println(line)
		}
	})
}

// filterLines 啟動 cmd、合併 stderr（等同 shell 的 2>&1），
// 逐行交給 sink，最後以 exit code 決定腳本結果。
func filterLines(cmd *exec.Cmd, sink func(string)) {
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		PrintRed(fmt.Sprintf("failed to get stdout pipe: %v", err))
		os.Exit(1)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		PrintRed(fmt.Sprintf("Error starting go test: %v", err))
		os.Exit(1)
	}

	scanner := bufio.NewScanner(stdoutPipe)
	for scanner.Scan() {
		sink(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		PrintRed(fmt.Sprintf("scanner error: %v", err))
	}

	if err := cmd.Wait(); err != nil {
		PrintRed("\nTests Finished with Errors\n")
		os.Exit(1)
	}
}
