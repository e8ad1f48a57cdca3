// slotctl проверяет расписание терапевта без запуска сервиса.
// Работает с JSON-файлом, в котором лежат настройки доступности и занятые бронирования.
package main

import (
	"fmt"
	"os"
	_ "time/tzdata"
)

func main() {
	cmd := newRootCommand(os.Stdout)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "slotctl: %v\n", err)
		os.Exit(1)
	}
}
