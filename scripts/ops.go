// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// 跨平台的 make 替代品：go run scripts/. [task]
package main

import (
	"fmt"
	"os"
	"os/exec"
)

func main() {
	exeCmd()
}

func exeCmd() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run scripts/. [task]")
		fmt.Println("tasks: test | test-all | test-detail | sim | svr")
		os.Exit(1)
	}
	selectTask(os.Args[1]) // os.Args[0] 是執行檔本身
}

func selectTask(task string) {
	switch task {
	case "test":
		runTest()
	case "test-all":
		runTestAll()
	case "test-detail":
		runTestDetail()
	case "sim":
		// 快速冒煙：小樣本跑一輪 demo pack 的解題率
		runPassthrough("go", "run", "./cmd/run", "-plays", "1000")
	case "svr":
		runPassthrough("go", "run", "./cmd/svr")
	default:
		PrintYellow(fmt.Sprintf("Unknown task: %s\n", task))
		os.Exit(1)
	}
}

// runPassthrough 直接把子行程的輸出接上目前的終端。
func runPassthrough(name string, args ...string) {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	if err := cmd.Run(); err != nil {
		PrintRed(err.Error())
		os.Exit(1)
	}
}
