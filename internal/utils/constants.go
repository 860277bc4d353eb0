package utils

// GitDirectoryName is the name of the Git repository directory.
const GitDirectoryName = ".git"

// LocalConfigFileName is the per-project configuration file name.
const LocalConfigFileName = ".treeline.yaml"

// GlobalConfigDirectoryName is the configuration directory under the user home.
const GlobalConfigDirectoryName = ".treeline"

// GlobalConfigFileName is the configuration file name inside the global directory.
const GlobalConfigFileName = "treeline.yaml"

// LoggerInitializationFailedMessageFormat reports a failure to build the application logger.
const LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"

// ApplicationExecutionFailedMessage prefixes fatal CLI failures.
const ApplicationExecutionFailedMessage = "application execution failed"
