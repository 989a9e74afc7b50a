package logger

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	LevelQuiet uint8 = iota
	LevelInfo
	LevelDebug
	LevelDev
	LevelNetDev
)

var DiscardLog = &Log{
	logLevel: LevelQuiet,
	stdout:   io.Discard,
	stderr:   io.Discard,
}

func New() *Log {
	return &Log{
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		logLevel: LevelInfo,
	}
}

// NewWriter returns a logger writing both streams to w. Mostly useful in tests.
func NewWriter(w io.Writer, lvl uint8) *Log {
	return &Log{
		stdout:   w,
		stderr:   w,
		logLevel: lvl,
	}
}

type Log struct {
	logLevel uint8
	stdout   io.Writer
	stderr   io.Writer
	sync.RWMutex
}

func (l *Log) SetLogLevel(lvl uint8) {
	l.Lock()
	defer l.Unlock()

	l.logLevel = lvl
}
func (l *Log) GetLogLevel() uint8 {
	l.RLock()
	defer l.RUnlock()

	return l.logLevel
}
func (l *Log) SetStdout(stdout io.Writer) {
	l.Lock()
	defer l.Unlock()

	l.stdout = stdout
}
func (l *Log) SetStderr(stderr io.Writer) {
	l.Lock()
	defer l.Unlock()

	l.stderr = stderr
}

var Reset = "\033[0m"
var Red = "\033[31m"
var Green = "\033[32m"
var Yellow = "\033[33m"
var Cyan = "\033[36m"

// caller depth: getLogPrefix <- write <- exported method <- caller
const callerDepth = 3

func getLogPrefix() string {
	_, file, line, _ := runtime.Caller(callerDepth)
	fileSpl := strings.Split(file, "/")
	debugInfos := strings.Split(fileSpl[len(fileSpl)-1], ".")[0] + ":" + strconv.FormatInt(int64(line), 10)
	for len(debugInfos) < 18 {
		debugInfos = debugInfos + " "
	}

	return getTime() + debugInfos
}
func getTime() string {
	t := time.Now()
	s := fmt.Sprintf("%02d:%02d:%02d.%03d", t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/1000/1000)
	return s + " "
}

func (l *Log) write(minLevel uint8, toStderr bool, color, letter, msg string) {
	l.Lock()
	defer l.Unlock()
	if l.logLevel < minLevel {
		return
	}
	out := l.stdout
	if toStderr {
		out = l.stderr
	}
	out.Write([]byte(getLogPrefix() + color + letter + " " + msg + Reset))
}

func (l *Log) Info(a ...any) {
	l.write(LevelInfo, false, "", "I", fmt.Sprintln(a...))
}
func (l *Log) Infof(format string, a ...any) {
	l.write(LevelInfo, false, "", "I", fmt.Sprintf(format+"\n", a...))
}

func (l *Log) Warn(a ...any) {
	l.write(LevelInfo, false, Yellow, "W", fmt.Sprintln(a...))
}
func (l *Log) Warnf(format string, a ...any) {
	l.write(LevelInfo, false, Yellow, "W", fmt.Sprintf(format+"\n", a...))
}

func (l *Log) Err(a ...any) {
	l.write(LevelInfo, true, Red, "E", fmt.Sprintln(a...))
}
func (l *Log) Errf(format string, a ...any) {
	l.write(LevelInfo, true, Red, "E", fmt.Sprintf(format+"\n", a...))
}

func (l *Log) Debug(a ...any) {
	l.write(LevelDebug, false, Cyan, "D", fmt.Sprintln(a...))
}
func (l *Log) Debugf(format string, a ...any) {
	l.write(LevelDebug, false, Cyan, "D", fmt.Sprintf(format+"\n", a...))
}

func (l *Log) Dev(a ...any) {
	l.write(LevelDev, false, Cyan, "d", fmt.Sprintln(a...))
}
func (l *Log) Devf(format string, a ...any) {
	l.write(LevelDev, false, Cyan, "d", fmt.Sprintf(format+"\n", a...))
}

func (l *Log) Net(a ...any) {
	l.write(LevelDev, false, Green, "N", fmt.Sprintln(a...))
}
func (l *Log) Netf(format string, a ...any) {
	l.write(LevelDev, false, Green, "N", fmt.Sprintf(format+"\n", a...))
}

// Fatal writes the message regardless of the log level and panics.
func (l *Log) Fatal(a ...any) {
	msg := fmt.Sprintln(a...)
	l.write(LevelQuiet, true, Red, "F", msg)
	panic(msg)
}
func (l *Log) Fatalf(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	l.write(LevelQuiet, true, Red, "F", msg+"\n")
	panic(msg)
}
