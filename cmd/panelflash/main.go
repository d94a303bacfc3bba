package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/jacobsa/go-serial/serial"
	"go.uber.org/zap"

	"github.com/jax-b/sliderpanel/pkg/sliderpanel"
	"github.com/jax-b/sliderpanel/pkg/sliderpanel/firmware"
	"github.com/jax-b/sliderpanel/pkg/sliderpanel/util"
)

var (
	port        string
	baud        int
	project     string
	table       string
	flasher     string
	flash       bool
	monitor     bool
	monitorBaud int
)

func init() {
	flag.StringVar(&port, "port", "/dev/ttyUSB0", "serial port the board is connected to")
	flag.IntVar(&baud, "baud", 460800, "baud rate for flashing")
	flag.StringVar(&project, "project", ".", "path to the firmware project directory")
	flag.StringVar(&table, "table", "", "partition table CSV to flash (default: the embedded one)")
	flag.StringVar(&flasher, "flasher", "idf.py", "flasher binary to run inside the project directory")
	flag.BoolVar(&flash, "flash", true, "flash the board")
	flag.BoolVar(&monitor, "monitor", false, "attach a serial monitor after flashing")
	flag.IntVar(&monitorBaud, "monitor-baud", 115200, "baud rate for the serial monitor")
	flag.Parse()
}

func main() {

	logger, err := sliderpanel.NewLogger("")
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}

	named := logger.Named("panelflash")

	tableBytes := firmware.PartitionTable()
	tableName := "embedded " + firmware.PartitionTableName

	if table != "" {
		tableBytes, err = os.ReadFile(table)
		if err != nil {
			named.Fatalw("Failed to read partition table", "path", table, "error", err)
		}

		tableName = table
	}

	// catch broken tables here, before the much slower flash cycle does
	if err := firmware.ValidateTable(tableBytes); err != nil {
		named.Fatalw("Invalid partition table", "table", tableName, "error", err)
	}

	named.Infow("Partition table is valid", "table", tableName)

	tablePath := filepath.Join(project, firmware.PartitionTableName)
	if err := os.WriteFile(tablePath, tableBytes, 0o644); err != nil {
		named.Fatalw("Failed to write partition table into project", "path", tablePath, "error", err)
	}

	named.Infow("Wrote partition table", "path", tablePath)

	if flash {
		named.Infow("Flashing", "flasher", flasher, "port", port, "baud", baud)

		cmd := exec.Command(flasher, "-p", port, "-b", strconv.Itoa(baud), "flash")
		cmd.Dir = project
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			named.Fatalw("Flasher failed", "flasher", flasher, "error", err)
		}

		named.Info("Flashed successfully")
	}

	if monitor {
		if err := runMonitor(named, port, uint(monitorBaud)); err != nil {
			named.Fatalw("Serial monitor failed", "error", err)
		}
	}
}

// runMonitor copies the board's serial output to stdout until interrupted
func runMonitor(logger *zap.SugaredLogger, port string, baudRate uint) error {
	conn, err := serial.Open(serial.OpenOptions{
		PortName:        port,
		BaudRate:        baudRate,
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
	})
	if err != nil {
		return fmt.Errorf("open serial connection: %w", err)
	}

	logger.Infow("Monitoring, press ctrl+C to stop", "port", port, "baud", baudRate)

	done := make(chan bool)

	go func() {
		<-util.SetupCloseHandler()
		close(done)
		conn.Close()
	}()

	if _, err := io.Copy(os.Stdout, conn); err != nil {

		// closing the port on interrupt makes the copy error out, that's us
		select {
		case <-done:
		default:
			return fmt.Errorf("read serial connection: %w", err)
		}
	}

	return nil
}
