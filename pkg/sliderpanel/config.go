package sliderpanel

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jax-b/sliderpanel/pkg/sliderpanel/board"
	"github.com/jax-b/sliderpanel/pkg/sliderpanel/util"
)

// CanonicalConfig provides application-wide access to configuration fields,
// as well as loading/file watching logic for the panel's configuration file
type CanonicalConfig struct {
	TargetMapping *targetMap

	Board board.Config

	BacklightPercent int

	TickInterval time.Duration

	FontPath string
	FontSize float64

	DeejAddress string

	InvertSlider bool

	NoiseReductionLevel string

	logger             *zap.SugaredLogger
	notifier           Notifier
	stopWatcherChannel chan bool

	reloadConsumers []chan bool

	userConfig     *viper.Viper
	internalConfig *viper.Viper
}

const (
	userConfigFilepath = "config.yaml"

	userConfigName     = "config"
	internalConfigName = "preferences"

	userConfigPath = "."

	configType = "yaml"

	configKeyTargetMapping      = "target_mapping"
	configKeyInvertSlider       = "invert_slider"
	configKeyNoiseReduction     = "noise_reduction"
	configKeyTickInterval       = "tick_interval_ms"
	configKeyFontPath           = "font_path"
	configKeyFontSize           = "font_size"
	configKeyDeejAddress        = "deej_address"
	configKeyDisplayDevice      = "display_device"
	configKeyDisplayWidth       = "display_width"
	configKeyDisplayHeight      = "display_height"
	configKeyTouchBus           = "touch_bus"
	configKeyTouchAddress       = "touch_address"
	configKeyTouchFrequency     = "touch_frequency"
	configKeyTouchResetPin      = "touch_reset_pin"
	configKeyTouchInterruptPin  = "touch_interrupt_pin"
	configKeyBacklightPin       = "backlight_pin"
	configKeyBacklightFrequency = "backlight_frequency"
	configKeyBacklightPercent   = "backlight_percent"

	defaultTickInterval       = 20
	defaultFontSize           = 24.0
	defaultDeejAddress        = "127.0.0.1:16990"
	defaultDisplayDevice      = "/dev/fb0"
	defaultDisplayWidth       = 800
	defaultDisplayHeight      = 480
	defaultTouchFrequency     = 100000
	defaultBacklightFrequency = 25000
	defaultBacklightPercent   = 50
)

// has to be defined as a non-constant because we're using path.Join
var internalConfigPath = path.Join(".", logDirectory)

// NewConfig creates a config instance for the panel object and sets up viper
// instances for the panel's config files
func NewConfig(logger *zap.SugaredLogger, notifier Notifier) (*CanonicalConfig, error) {
	logger = logger.Named("config")

	cc := &CanonicalConfig{
		logger:             logger,
		notifier:           notifier,
		reloadConsumers:    []chan bool{},
		stopWatcherChannel: make(chan bool),
	}

	// distinguish between the user-provided config (config.yaml) and the internal config (logs/preferences.yaml)
	userConfig := viper.New()
	userConfig.SetConfigName(userConfigName)
	userConfig.SetConfigType(configType)
	userConfig.AddConfigPath(userConfigPath)

	userConfig.SetDefault(configKeyTargetMapping, map[string][]string{
		"0": {targetNameVolume},
	})
	userConfig.SetDefault(configKeyInvertSlider, false)
	userConfig.SetDefault(configKeyNoiseReduction, "")
	userConfig.SetDefault(configKeyTickInterval, defaultTickInterval)
	userConfig.SetDefault(configKeyFontPath, "")
	userConfig.SetDefault(configKeyFontSize, defaultFontSize)
	userConfig.SetDefault(configKeyDeejAddress, defaultDeejAddress)
	userConfig.SetDefault(configKeyDisplayDevice, defaultDisplayDevice)
	userConfig.SetDefault(configKeyDisplayWidth, defaultDisplayWidth)
	userConfig.SetDefault(configKeyDisplayHeight, defaultDisplayHeight)
	userConfig.SetDefault(configKeyTouchBus, "")
	userConfig.SetDefault(configKeyTouchAddress, int(board.DefaultTouchAddress))
	userConfig.SetDefault(configKeyTouchFrequency, defaultTouchFrequency)
	userConfig.SetDefault(configKeyTouchResetPin, "")
	userConfig.SetDefault(configKeyTouchInterruptPin, "")
	userConfig.SetDefault(configKeyBacklightPin, "")
	userConfig.SetDefault(configKeyBacklightFrequency, defaultBacklightFrequency)
	userConfig.SetDefault(configKeyBacklightPercent, defaultBacklightPercent)

	internalConfig := viper.New()
	internalConfig.SetConfigName(internalConfigName)
	internalConfig.SetConfigType(configType)
	internalConfig.AddConfigPath(internalConfigPath)

	cc.userConfig = userConfig
	cc.internalConfig = internalConfig

	logger.Debug("Created config instance")

	return cc, nil
}

// Load reads the panel's config files from disk and tries to parse them
func (cc *CanonicalConfig) Load() error {
	cc.logger.Debugw("Loading config", "path", userConfigFilepath)

	// make sure it exists
	if !util.FileExists(userConfigFilepath) {
		cc.logger.Warnw("Config file not found", "path", userConfigFilepath)
		cc.notifier.Notify("Can't find configuration!",
			fmt.Sprintf("%s must be in the same directory as sliderpanel. Please re-launch", userConfigFilepath))

		return fmt.Errorf("config file doesn't exist: %s", userConfigFilepath)
	}

	// load the user config
	if err := cc.userConfig.ReadInConfig(); err != nil {
		cc.logger.Warnw("Viper failed to read user config", "error", err)

		// if the error is yaml-format-related, show a sensible error. otherwise, show 'em to the logs
		if strings.Contains(err.Error(), "yaml:") {
			cc.notifier.Notify("Invalid configuration!",
				fmt.Sprintf("Please make sure %s is in a valid YAML format.", userConfigFilepath))
		} else {
			cc.notifier.Notify("Error loading configuration!", "Please check sliderpanel's logs for more details.")
		}

		return fmt.Errorf("read user config: %w", err)
	}

	// load the internal config - this doesn't have to exist, so it can error
	if err := cc.internalConfig.ReadInConfig(); err != nil {
		cc.logger.Debugw("Viper failed to read internal config", "error", err, "reminder", "this is fine")
	}

	// canonize the configuration with viper's helpers
	if err := cc.populateFromVipers(); err != nil {
		cc.logger.Warnw("Failed to populate config fields", "error", err)
		return fmt.Errorf("populate config fields: %w", err)
	}

	cc.logger.Info("Loaded config successfully")
	cc.logger.Infow("Config values",
		"targetMapping", cc.TargetMapping,
		"board", cc.Board,
		"backlightPercent", cc.BacklightPercent,
		"tickInterval", cc.TickInterval,
		"invertSlider", cc.InvertSlider)

	return nil
}

// SubscribeToChanges allows external components to receive updates when the config is reloaded
func (cc *CanonicalConfig) SubscribeToChanges() chan bool {
	c := make(chan bool)
	cc.reloadConsumers = append(cc.reloadConsumers, c)

	return c
}

// WatchConfigFileChanges starts watching for configuration file changes
// and attempts reloading the config when they happen
func (cc *CanonicalConfig) WatchConfigFileChanges() {
	cc.logger.Debugw("Starting to watch user config file for changes", "path", userConfigFilepath)

	const (
		minTimeBetweenReloadAttempts = time.Millisecond * 500
		delayBetweenEventAndReload   = time.Millisecond * 50
	)

	lastAttemptedReload := time.Now()

	// establish watch using viper as opposed to doing it ourselves, though our internal cooldown is still required
	cc.userConfig.WatchConfig()
	cc.userConfig.OnConfigChange(func(event fsnotify.Event) {

		// when we get a write event...
		if event.Op&fsnotify.Write == fsnotify.Write {

			now := time.Now()

			// ... check if it's not a duplicate (many editors will write to a file twice)
			if lastAttemptedReload.Add(minTimeBetweenReloadAttempts).Before(now) {

				// and attempt reload if appropriate
				cc.logger.Debugw("Config file modified, attempting reload", "event", event)

				// wait a bit to let the editor actually flush the new file contents to disk
				<-time.After(delayBetweenEventAndReload)

				if err := cc.Load(); err != nil {
					cc.logger.Warnw("Failed to reload config file", "error", err)
				} else {
					cc.logger.Info("Reloaded config successfully")
					cc.notifier.Notify("Configuration reloaded!", "Your changes have been applied.")

					cc.onConfigReloaded()
				}

				// don't forget to update the time
				lastAttemptedReload = now
			}
		}
	})

	// wait till they stop us
	<-cc.stopWatcherChannel
	cc.logger.Debug("Stopping user config file watcher")
	cc.userConfig.OnConfigChange(nil)
}

// StopWatchingConfigFile signals our filesystem watcher to stop
func (cc *CanonicalConfig) StopWatchingConfigFile() {
	cc.stopWatcherChannel <- true
}

func (cc *CanonicalConfig) populateFromVipers() error {

	// merge the target mappings from the user and internal configs
	cc.TargetMapping = targetMapFromConfigs(
		cc.userConfig.GetStringMapStringSlice(configKeyTargetMapping),
		cc.internalConfig.GetStringMapStringSlice(configKeyTargetMapping),
	)

	// board wiring - the pins and buses only apply on the next startup,
	// so there's nothing to validate beyond what viper gives us
	cc.Board.FramebufferDevice = cc.userConfig.GetString(configKeyDisplayDevice)
	cc.Board.Width = cc.userConfig.GetInt(configKeyDisplayWidth)
	cc.Board.Height = cc.userConfig.GetInt(configKeyDisplayHeight)
	cc.Board.TouchBus = cc.userConfig.GetString(configKeyTouchBus)
	cc.Board.TouchAddress = uint16(cc.userConfig.GetInt(configKeyTouchAddress))
	cc.Board.TouchFrequency = cc.userConfig.GetInt(configKeyTouchFrequency)
	cc.Board.TouchResetPin = cc.userConfig.GetString(configKeyTouchResetPin)
	cc.Board.TouchInterruptPin = cc.userConfig.GetString(configKeyTouchInterruptPin)
	cc.Board.BacklightPin = cc.userConfig.GetString(configKeyBacklightPin)
	cc.Board.BacklightFrequency = cc.userConfig.GetInt(configKeyBacklightFrequency)

	cc.BacklightPercent = cc.userConfig.GetInt(configKeyBacklightPercent)
	if cc.BacklightPercent < 0 || cc.BacklightPercent > 100 {
		cc.logger.Warnw("Invalid backlight percent specified, using default value",
			"key", configKeyBacklightPercent,
			"invalidValue", cc.BacklightPercent,
			"defaultValue", defaultBacklightPercent)

		cc.BacklightPercent = defaultBacklightPercent
	}

	tickInterval := cc.userConfig.GetInt(configKeyTickInterval)
	if tickInterval <= 0 {
		cc.logger.Warnw("Invalid tick interval specified, using default value",
			"key", configKeyTickInterval,
			"invalidValue", tickInterval,
			"defaultValue", defaultTickInterval)

		tickInterval = defaultTickInterval
	}
	cc.TickInterval = time.Duration(tickInterval) * time.Millisecond

	cc.FontPath = cc.userConfig.GetString(configKeyFontPath)

	cc.FontSize = cc.userConfig.GetFloat64(configKeyFontSize)
	if cc.FontSize <= 0 {
		cc.logger.Warnw("Invalid font size specified, using default value",
			"key", configKeyFontSize,
			"invalidValue", cc.FontSize,
			"defaultValue", defaultFontSize)

		cc.FontSize = defaultFontSize
	}

	cc.DeejAddress = cc.userConfig.GetString(configKeyDeejAddress)
	cc.InvertSlider = cc.userConfig.GetBool(configKeyInvertSlider)
	cc.NoiseReductionLevel = cc.userConfig.GetString(configKeyNoiseReduction)

	cc.logger.Debug("Populated config fields from vipers")

	return nil
}

func (cc *CanonicalConfig) onConfigReloaded() {
	cc.logger.Debug("Notifying consumers about configuration reload")

	for _, consumer := range cc.reloadConsumers {
		consumer <- true
	}
}
