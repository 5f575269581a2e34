package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE workflows (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				definition JSONB NOT NULL,
				is_active BOOLEAN NOT NULL DEFAULT true,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_workflows_is_active ON workflows(is_active);
			CREATE INDEX idx_workflows_created_at ON workflows(created_at);

			CREATE TABLE workflow_executions (
				id VARCHAR(255) PRIMARY KEY,
				workflow_id UUID,
				status VARCHAR(50) NOT NULL CHECK (status IN ('running', 'completed', 'failed')),
				started_at TIMESTAMP WITH TIME ZONE NOT NULL,
				completed_at TIMESTAMP WITH TIME ZONE,
				input_data JSONB DEFAULT '{}',
				output_data JSONB,
				execution_path JSONB DEFAULT '[]',
				error_message TEXT
			);

			CREATE INDEX idx_workflow_executions_workflow_id ON workflow_executions(workflow_id);
			CREATE INDEX idx_workflow_executions_status ON workflow_executions(status);
			CREATE INDEX idx_workflow_executions_started_at ON workflow_executions(started_at);

			CREATE TABLE execution_logs (
				id VARCHAR(255) PRIMARY KEY,
				execution_id VARCHAR(255) NOT NULL REFERENCES workflow_executions(id) ON DELETE CASCADE,
				node_id VARCHAR(255) NOT NULL,
				input_data JSONB DEFAULT '{}',
				output_data JSONB,
				status VARCHAR(50) NOT NULL CHECK (status IN ('completed', 'failed')),
				message TEXT,
				duration_ms BIGINT NOT NULL DEFAULT 0,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				seq BIGSERIAL
			);

			CREATE INDEX idx_execution_logs_execution_id ON execution_logs(execution_id);
			CREATE INDEX idx_execution_logs_node_id ON execution_logs(node_id);
		`,
		2: `
			CREATE EXTENSION IF NOT EXISTS vector;

			CREATE TABLE documents (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				collection VARCHAR(255) NOT NULL,
				title TEXT NOT NULL DEFAULT '',
				content TEXT NOT NULL,
				metadata JSONB DEFAULT '{}',
				embedding vector(1536) NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE INDEX idx_documents_collection ON documents(collection);
			CREATE INDEX idx_documents_embedding ON documents
				USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100);
		`,
	}
}
